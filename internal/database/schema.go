package database

import "database/sql"

const schema = `
CREATE TABLE IF NOT EXISTS site_settings (
    setting_key TEXT PRIMARY KEY,
    setting_value TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS seo_meta (
    page_slug TEXT PRIMARY KEY,
    title TEXT,
    description TEXT,
    keywords TEXT,
    canonical_url TEXT,
    robots TEXT,
    og_image TEXT
);

CREATE TABLE IF NOT EXISTS analytics_sessions (
    session_id TEXT PRIMARY KEY,
    ip_address TEXT NOT NULL,
    user_agent TEXT NOT NULL DEFAULT '',
    referrer TEXT NOT NULL DEFAULT '',
    device_type TEXT NOT NULL DEFAULT 'Desktop',
    browser TEXT NOT NULL DEFAULT 'Unknown',
    country TEXT NOT NULL DEFAULT 'Unknown',
    country_code TEXT NOT NULL DEFAULT '',
    city TEXT NOT NULL DEFAULT 'Unknown',
    region TEXT NOT NULL DEFAULT 'Unknown',
    latitude REAL NOT NULL DEFAULT 0,
    longitude REAL NOT NULL DEFAULT 0,
    started_at DATETIME NOT NULL,
    last_activity DATETIME NOT NULL,
    page_count INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS analytics_pageviews (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    session_id TEXT NOT NULL,
    page_name TEXT NOT NULL,
    page_url TEXT NOT NULL DEFAULT '',
    viewed_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS page_views (
    page_name TEXT PRIMARY KEY,
    view_count INTEGER NOT NULL DEFAULT 0,
    last_viewed DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS content_view_marks (
    session_id TEXT NOT NULL,
    content_kind TEXT NOT NULL,
    slug TEXT NOT NULL,
    viewed_at DATETIME NOT NULL,
    PRIMARY KEY (session_id, content_kind, slug)
);

CREATE TABLE IF NOT EXISTS ab_tests (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    test_key TEXT NOT NULL UNIQUE,
    is_active INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS ab_variants (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    test_id INTEGER NOT NULL,
    variant_name TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    view_count INTEGER NOT NULL DEFAULT 0,
    click_count INTEGER NOT NULL DEFAULT 0,
    UNIQUE (test_id, variant_name)
);

CREATE TABLE IF NOT EXISTS blog_posts (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    excerpt TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    image_url TEXT,
    author TEXT,
    tags TEXT,
    status TEXT NOT NULL DEFAULT 'draft',
    view_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL UNIQUE,
    title TEXT NOT NULL,
    summary TEXT NOT NULL DEFAULT '',
    body TEXT NOT NULL DEFAULT '',
    image_url TEXT,
    client TEXT,
    is_active INTEGER NOT NULL DEFAULT 1,
    display_order INTEGER NOT NULL DEFAULT 0,
    view_count INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS services (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    description TEXT NOT NULL DEFAULT '',
    icon TEXT,
    is_active INTEGER NOT NULL DEFAULT 1,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS testimonials (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    author TEXT NOT NULL,
    company TEXT,
    quote TEXT NOT NULL,
    rating INTEGER NOT NULL DEFAULT 5,
    is_active INTEGER NOT NULL DEFAULT 1,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS faq (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    question TEXT NOT NULL,
    answer TEXT NOT NULL,
    is_active INTEGER NOT NULL DEFAULT 1,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS popups (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    title TEXT NOT NULL,
    content TEXT NOT NULL DEFAULT '',
    is_active INTEGER NOT NULL DEFAULT 1,
    display_order INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS inquiries (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    reference TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    email TEXT NOT NULL,
    phone TEXT,
    message TEXT NOT NULL,
    created_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS newsletter_subscribers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    email TEXT NOT NULL UNIQUE,
    status TEXT NOT NULL DEFAULT 'active',
    unsubscribe_token TEXT NOT NULL UNIQUE,
    subscribed_at DATETIME NOT NULL,
    unsubscribed_at DATETIME
);

CREATE INDEX IF NOT EXISTS idx_pageviews_session_page ON analytics_pageviews(session_id, page_name, viewed_at);
CREATE INDEX IF NOT EXISTS idx_sessions_last_activity ON analytics_sessions(last_activity);
CREATE INDEX IF NOT EXISTS idx_sessions_started ON analytics_sessions(started_at);
CREATE INDEX IF NOT EXISTS idx_blog_status_created ON blog_posts(status, created_at);
CREATE INDEX IF NOT EXISTS idx_projects_active_order ON projects(is_active, display_order);
CREATE INDEX IF NOT EXISTS idx_variants_test ON ab_variants(test_id);
`

// Migrate applies the database schema.
func Migrate(db *sql.DB) error {
	_, err := db.Exec(schema)
	return err
}
