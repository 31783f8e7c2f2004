package sqlinline

const QInsertCreation = `--sql 1a6e4c92-7b3d-4f05-8e1a-d29c0b5f7e48
insert into creations (id, user_id, prompt, content, type, publish, likes, created_at, updated_at)
values ($1::uuid, $2::text, $3::text, $4::text, $5::text, $6::boolean, '{}', now(), now())
returning id::text, user_id, prompt, content, type, publish, likes, created_at;
`

const QListUserCreations = `--sql 8c2f0e6a-4d19-4b7c-93a5-e0b6d1f4c283
select id::text, user_id, prompt, content, type, publish, likes, created_at
from creations
where user_id = $1::text
order by created_at desc;
`

const QListPublishedCreations = `--sql f05b9d3e-2c7a-4e81-b6d4-7a3e9c1f0b52
select id::text, user_id, prompt, content, type, publish, likes, created_at
from creations
where publish
order by created_at desc;
`

// QToggleLikeCreation adds or removes $2 from the like set and returns whether
// the user likes the creation afterwards.
const QToggleLikeCreation = `--sql 6e9a1d4c-b83f-4a27-9c05-f2d7e8b1a6c0
update creations
set likes = case
        when $2::text = any(likes) then array_remove(likes, $2::text)
        else array_append(likes, $2::text)
    end,
    updated_at = now()
where id = $1::uuid
returning $2::text = any(likes);
`
