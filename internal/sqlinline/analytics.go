package sqlinline

const QCountEventsByTypes = `--sql 6b0eeb31-76e9-4639-bdfa-b90bb5f8e08e
select count(*)
from analytics_events
where event_type = any($1::text[]);
`

const QSumMetaByTypes = `--sql b2b3fbfe-ef7f-495d-8826-0b193fe189cc
select coalesce(sum((meta ->> $2::text)::double precision), 0)
from analytics_events
where event_type = any($1::text[])
  and jsonb_typeof(meta -> $2::text) = 'number';
`

const QCountActiveUsers = `--sql 2f5cc410-e0d3-4de5-9482-02c129e88954
select count(distinct user_id)
from analytics_events
where created_at >= $1::timestamptz
  and coalesce(user_id, '') <> '';
`

const QDailyEventCounts = `--sql 5cbafef6-e709-4ef7-8328-6ffe3870e15f
select to_char(created_at at time zone 'UTC', 'YYYY-MM-DD') as day, count(*)::double precision
from analytics_events
where event_type = any($1::text[])
group by day
order by day asc;
`

const QDailyMetaSums = `--sql 1914dfbe-b96b-46a3-94bc-4569d3fbf4e1
select to_char(created_at at time zone 'UTC', 'YYYY-MM-DD') as day,
       coalesce(sum((meta ->> $2::text)::double precision), 0)
from analytics_events
where event_type = any($1::text[])
  and jsonb_typeof(meta -> $2::text) = 'number'
group by day
order by day asc;
`

const QTopModels = `--sql 600b97e9-b058-43a6-850e-a6192f596ee5
select meta ->> 'model' as model, count(*)
from analytics_events
where coalesce(meta ->> 'model', '') <> ''
group by model
order by count(*) desc, model asc
limit $1::int;
`

const QUpsertDailySnapshot = `--sql 4211cfe6-3301-4bda-bd4c-7871c1451cb4
insert into analytics_daily (
  date, captured_at, total_dreams, total_images, audio_minutes,
  video_render_count, exports_count, active_users_7d, active_users_30d
) values ($1::date, $2::timestamptz, $3::bigint, $4::bigint, $5::double precision, $6::bigint, $7::bigint, $8::bigint, $9::bigint)
on conflict (date) do update set
  captured_at        = excluded.captured_at,
  total_dreams       = excluded.total_dreams,
  total_images       = excluded.total_images,
  audio_minutes      = excluded.audio_minutes,
  video_render_count = excluded.video_render_count,
  exports_count      = excluded.exports_count,
  active_users_7d    = excluded.active_users_7d,
  active_users_30d   = excluded.active_users_30d;
`
