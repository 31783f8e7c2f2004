package sqlinline

// QEnsureSchema creates the tables this service owns. users only carries the
// identity provider's metadata slot (free_usage) when the Postgres quota
// backend is selected.
const QEnsureSchema = `--sql 3f1c9a57-2b6e-4e0a-9d51-7a0c2f4e8b13
create table if not exists users (
    id          text primary key,
    properties  jsonb not null default '{}'::jsonb,
    created_at  timestamptz not null default now(),
    updated_at  timestamptz not null default now()
);

create table if not exists creations (
    id          uuid primary key default gen_random_uuid(),
    user_id     text not null,
    prompt      text not null,
    content     text not null,
    type        text not null,
    publish     boolean not null default false,
    likes       text[] not null default '{}',
    created_at  timestamptz not null default now(),
    updated_at  timestamptz not null default now()
);

create index if not exists creations_user_created_idx on creations (user_id, created_at desc);
create index if not exists creations_published_idx on creations (created_at desc) where publish;

create table if not exists integration_tokens (
    id          uuid primary key default gen_random_uuid(),
    provider    text not null unique,
    token       text not null,
    properties  jsonb not null default '{}'::jsonb,
    created_at  timestamptz not null default now(),
    updated_at  timestamptz not null default now()
);
`
