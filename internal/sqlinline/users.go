package sqlinline

const QInsertUser = `--sql 6a30e39e-5dbb-4ab9-aca3-cbec1069632d
insert into users (id, email, password_hash, created_at)
values (gen_random_uuid(), lower($1::text), $2::text, now())
returning id::text, email, password_hash, created_at;
`

const QSelectUserByEmail = `--sql 0e30150e-045a-4b93-a16f-53319291d254
select id::text, email, password_hash, created_at
from users
where lower(email) = lower($1::text)
limit 1;
`

const QSelectUserByID = `--sql dfe9890e-7ae6-4fbe-92cb-82ffc492ace5
select id::text, email, password_hash, created_at
from users
where id = $1::uuid
limit 1;
`
