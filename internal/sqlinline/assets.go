package sqlinline

const QInsertUserAsset = `--sql a5caf071-55fb-46f9-91ad-599be6d99d70
insert into user_assets (id, user_id, type, url, scene_index, created_at)
values (gen_random_uuid(), $1::uuid, $2::text, $3::text, $4::int, now())
returning id::text, created_at;
`

// QListUserAssets filters by type only when $2 is non-null.
const QListUserAssets = `--sql c83c7ae3-d9b7-4af1-98e5-d0edf0ae492c
select id::text, user_id::text, type, url, scene_index, created_at
from user_assets
where user_id = $1::uuid
  and ($2::text is null or type = $2::text)
order by created_at desc, id desc;
`
