package sqlinline

const QInsertTask = `--sql 91d479ba-510c-4359-8a31-b4106c8655b2
insert into tasks (id, user_id, type, status, progress, created_at, updated_at)
values (gen_random_uuid(), $1::uuid, $2::text, 'queued', 0, now(), now())
returning id::text, user_id::text, type, status, progress, result, coalesce(error, ''), created_at, updated_at;
`

// QUpdateTask leaves terminal tasks untouched; callers inspect the affected row count.
const QUpdateTask = `--sql 9830feb4-3b99-431f-891d-acdc1c889a8b
update tasks set
  status     = coalesce($2::text, status),
  progress   = coalesce($3::double precision, progress),
  result     = coalesce($4::jsonb, result),
  error      = coalesce($5::text, error),
  updated_at = now()
where id = $1::uuid
  and status not in ('complete', 'failed');
`

const QSelectTaskByID = `--sql 76b8755a-7af9-4dea-a86b-4a0a1cdfe60b
select id::text, user_id::text, type, status, progress, result, coalesce(error, ''), created_at, updated_at
from tasks
where id = $1::uuid
limit 1;
`
