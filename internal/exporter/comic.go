package exporter

import (
	"context"
	"encoding/xml"
	"fmt"
	"image"
	"strings"

	"dreamvisualizer/internal/domain"
	"dreamvisualizer/pkg/zip"
)

const panelsPerPage = 3

// Comic renders scenes as captioned panels, either as a PDF or a CBZ archive.
func (e *Exporter) Comic(ctx context.Context, userID string, req ComicRequest) (*Result, error) {
	if len(req.Scenes) == 0 {
		return nil, domain.Invalid("At least one scene is required.")
	}
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format == "" {
		format = FormatPDF
	}
	if format != FormatPDF && format != FormatCBZ {
		return nil, domain.Invalid(fmt.Sprintf("Unsupported comic format: %s", req.Format))
	}
	images, err := e.sceneImages(ctx, len(req.Scenes), req.ImageURLs)
	if err != nil {
		return nil, err
	}

	var (
		data        []byte
		contentType string
	)
	if format == FormatCBZ {
		data, err = comicArchive(req.Scenes, images)
		contentType = "application/vnd.comicbook+zip"
	} else {
		data, err = comicPDF(req.Scenes, images)
		contentType = "application/pdf"
	}
	if err != nil {
		return nil, err
	}

	return e.publish(ctx, userID, e.fileName("comicbook", format), contentType, data,
		domain.EventExportComic, map[string]any{"format": format}, func(url string) error {
			_, err := e.journal.SavePDF(ctx, userID, url, "comic")
			return err
		})
}

func comicPDF(scenes []Scene, images []image.Image) ([]byte, error) {
	doc := newDocument("Comic Book")
	doc.heading("Comic Book")
	for i, scene := range scenes {
		position := i + 1
		if images[i] != nil {
			if err := doc.image(images[i], 0.8); err != nil {
				return nil, err
			}
			doc.space(2)
		}
		caption := strings.TrimSpace(scene.Text)
		if caption == "" {
			caption = "(No dialogue for this panel.)"
		}
		doc.paragraph(caption)
		doc.space(6)
		if position%panelsPerPage == 0 && position != len(scenes) {
			doc.pageBreak()
		}
	}
	return doc.bytes()
}

// comicInfo is the ComicRack metadata document read by most CBZ readers.
type comicInfo struct {
	XMLName   xml.Name    `xml:"ComicInfo"`
	Title     string      `xml:"Title"`
	Summary   string      `xml:"Summary,omitempty"`
	PageCount int         `xml:"PageCount"`
	Manga     string      `xml:"Manga"`
	Pages     []comicPage `xml:"Pages>Page"`
}

type comicPage struct {
	Image int    `xml:"Image,attr"`
	Type  string `xml:"Type,attr,omitempty"`
}

func comicArchive(scenes []Scene, images []image.Image) ([]byte, error) {
	var (
		entries  []zip.Entry
		captions []string
		pages    []comicPage
	)
	for i, scene := range scenes {
		if caption := strings.TrimSpace(scene.Text); caption != "" {
			captions = append(captions, fmt.Sprintf("%d. %s", i+1, caption))
		}
		if images[i] == nil {
			continue
		}
		data, err := encodePNG(images[i])
		if err != nil {
			return nil, err
		}
		page := len(entries)
		entries = append(entries, zip.Entry{Name: fmt.Sprintf("%03d.png", page+1), Data: data, Stored: true})
		p := comicPage{Image: page}
		if page == 0 {
			p.Type = "FrontCover"
		}
		pages = append(pages, p)
	}

	info := comicInfo{
		Title:     "Comic Book",
		Summary:   strings.Join(captions, "\n"),
		PageCount: len(pages),
		Manga:     "No",
		Pages:     pages,
	}
	xmlData, err := xml.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode ComicInfo.xml: %w", err)
	}
	entries = append(entries, zip.Entry{Name: "ComicInfo.xml", Data: append([]byte(xml.Header), xmlData...)})
	return zip.Archive(entries)
}
