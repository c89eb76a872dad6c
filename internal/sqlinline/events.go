package sqlinline

const QInsertEvent = `--sql 29ddb873-b28a-49e4-a75c-370f56258d2d
insert into analytics_events (id, event_type, user_id, dream_id, meta, created_at)
values (gen_random_uuid(), $1::text, nullif($2::text, ''), nullif($3::text, ''), coalesce($4::jsonb, '{}'::jsonb), $5::timestamptz)
returning id::text;
`

const QExportEvents = `--sql ec496b02-4304-4abc-8c8f-4edb5904559b
select id::text, event_type, coalesce(user_id, ''), coalesce(dream_id, ''), meta, created_at
from analytics_events
order by created_at asc, id asc
limit $1::int;
`
