// Command seed populates a fresh database with starter settings, demo
// content and the default hero headline experiment. Safe to run against
// an existing database: it never overwrites rows that are already there.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"marquee/internal/config"
	"marquee/internal/content"
	"marquee/internal/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	db, err := database.Open(cfg.DataPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	if err := seed(db); err != nil {
		log.Fatalf("seed: %v", err)
	}

	fmt.Println("Database seeded.")
	fmt.Println("Edit site_settings to change branding, or re-run after wiping the data folder for a clean slate.")
	os.Exit(0)
}

func seed(db *sql.DB) error {
	if err := seedSettings(db); err != nil {
		return fmt.Errorf("settings: %w", err)
	}
	if err := seedSEO(db); err != nil {
		return fmt.Errorf("seo: %w", err)
	}
	if err := seedContent(db); err != nil {
		return fmt.Errorf("content: %w", err)
	}
	if err := seedHeroTest(db); err != nil {
		return fmt.Errorf("hero test: %w", err)
	}
	return nil
}

func seedSettings(db *sql.DB) error {
	defaults := map[string]string{
		"site_name":         "Marquee",
		"tagline":           "A digital studio for ambitious companies",
		"primary_color":     "#1a73e8",
		"contact_email":     "hello@example.com",
		"hero_headline":     "We build digital products that grow companies.",
		"seo_default_image": "",
	}
	for key, value := range defaults {
		if _, err := db.Exec(
			`INSERT INTO site_settings (setting_key, setting_value) VALUES (?, ?)
			 ON CONFLICT (setting_key) DO NOTHING`, key, value); err != nil {
			return err
		}
	}
	return nil
}

func seedSEO(db *sql.DB) error {
	_, err := db.Exec(
		`INSERT INTO seo_meta (page_slug, title, description, keywords, robots)
		 VALUES ('home', 'Marquee | Digital Studio',
		         'Design, engineering and growth for ambitious companies.',
		         'digital agency, web development, design', 'index, follow')
		 ON CONFLICT (page_slug) DO NOTHING`)
	return err
}

// seedContent inserts demo rows. Slugged tables dedupe on slug; the
// rest are only filled when empty so edited rows survive re-runs.
func seedContent(db *sql.DB) error {
	if empty, err := tableEmpty(db, "services"); err != nil {
		return err
	} else if empty {
		for i, s := range content.DefaultServices {
			if _, err := db.Exec(
				`INSERT INTO services (title, description, icon, display_order) VALUES (?, ?, ?, ?)`,
				s.Title, s.Description, s.Icon, i); err != nil {
				return err
			}
		}
	}

	if empty, err := tableEmpty(db, "testimonials"); err != nil {
		return err
	} else if empty {
		for i, t := range content.DefaultTestimonials {
			if _, err := db.Exec(
				`INSERT INTO testimonials (author, company, quote, rating, display_order) VALUES (?, ?, ?, ?, ?)`,
				t.Author, t.Company, t.Quote, t.Rating, i); err != nil {
				return err
			}
		}
	}

	if empty, err := tableEmpty(db, "faq"); err != nil {
		return err
	} else if empty {
		for i, f := range content.DefaultFAQs {
			if _, err := db.Exec(
				`INSERT INTO faq (question, answer, display_order) VALUES (?, ?, ?)`,
				f.Question, f.Answer, i); err != nil {
				return err
			}
		}
	}

	for _, p := range content.DefaultPosts {
		if _, err := db.Exec(
			`INSERT INTO blog_posts (slug, title, excerpt, body, status, created_at) VALUES (?, ?, ?, ?, ?, ?)
			 ON CONFLICT (slug) DO NOTHING`,
			p.Slug, p.Title, p.Excerpt, p.Body, p.Status, p.CreatedAt); err != nil {
			return err
		}
	}

	for _, p := range content.DefaultProjects {
		if _, err := db.Exec(
			`INSERT INTO projects (slug, title, summary, body, created_at) VALUES (?, ?, ?, ?, ?)
			 ON CONFLICT (slug) DO NOTHING`,
			p.Slug, p.Title, p.Summary, p.Body, p.CreatedAt); err != nil {
			return err
		}
	}

	return nil
}

// seedHeroTest creates the hero_headline experiment with two copy
// variants.
func seedHeroTest(db *sql.DB) error {
	if _, err := db.Exec(
		`INSERT INTO ab_tests (test_key, is_active) VALUES ('hero_headline', 1)
		 ON CONFLICT (test_key) DO NOTHING`); err != nil {
		return err
	}

	var testID int64
	if err := db.QueryRow(`SELECT id FROM ab_tests WHERE test_key = 'hero_headline'`).Scan(&testID); err != nil {
		return err
	}

	variants := map[string]string{
		"A": "We build digital products that grow companies.",
		"B": "Your next product, shipped by a team that's done it before.",
	}
	for name, headline := range variants {
		if _, err := db.Exec(
			`INSERT INTO ab_variants (test_id, variant_name, content) VALUES (?, ?, ?)
			 ON CONFLICT (test_id, variant_name) DO NOTHING`, testID, name, headline); err != nil {
			return err
		}
	}
	return nil
}

func tableEmpty(db *sql.DB, table string) (bool, error) {
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM ` + table).Scan(&n); err != nil {
		return false, err
	}
	return n == 0, nil
}
