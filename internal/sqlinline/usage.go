package sqlinline

// QSelectFreeUsage returns the stored counter, NULL when the user row exists
// without one, and no row when the user is unknown.
const QSelectFreeUsage = `--sql 9b27e0d4-61c3-4f8a-a5e2-0c8d7b3f1a64
select (properties->>'free_usage')::int
from users
where id = $1::text
limit 1;
`

// QInitFreeUsage sets free_usage to 0 only when it is absent and returns the
// value stored afterwards. The conflict branch always updates, writing the
// existing counter back, so a concurrent initializer still gets a row.
const QInitFreeUsage = `--sql c4e8a1f0-3d7b-4b25-8f6e-2a9c5d0b7e31
insert into users (id, properties, created_at, updated_at)
values ($1::text, jsonb_build_object('free_usage', 0), now(), now())
on conflict (id) do update set
    properties = users.properties || jsonb_build_object(
        'free_usage', coalesce((users.properties->>'free_usage')::int, 0)
    ),
    updated_at = now()
returning (properties->>'free_usage')::int;
`

// QIncrementFreeUsage atomically adds one to the counter and returns the new value.
const QIncrementFreeUsage = `--sql 5d0f2b8e-9a41-4c6d-b7e3-81f4a2c6d905
insert into users (id, properties, created_at, updated_at)
values ($1::text, jsonb_build_object('free_usage', 1), now(), now())
on conflict (id) do update set
    properties = jsonb_set(
        users.properties,
        '{free_usage}',
        to_jsonb(coalesce((users.properties->>'free_usage')::int, 0) + 1),
        true
    ),
    updated_at = now()
returning (properties->>'free_usage')::int;
`

// QResetFreeUsage is the operator reset path.
const QResetFreeUsage = `--sql e7a3c5b1-0f82-4d9e-a6c4-3b1d8f0e2a77
update users
set properties = jsonb_set(properties, '{free_usage}', '0'::jsonb, true),
    updated_at = now()
where id = $1::text;
`
