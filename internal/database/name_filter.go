package database

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode"

	"go.uber.org/zap"
)

// DefaultBlocklistURL is a public list of words unsuitable for children's display names
const DefaultBlocklistURL = "https://raw.githubusercontent.com/LDNOOBW/List-of-Dirty-Naughty-Obscene-and-Otherwise-Bad-Words/refs/heads/master/en"

// SeedBlockedWords downloads the blocklist into blocked_words unless it is already populated
func (db *DB) SeedBlockedWords(ctx context.Context, client *http.Client, url string, logger *zap.Logger) (int, error) {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM blocked_words").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count blocked words: %w", err)
	}
	if count > 0 {
		logger.Debug("name filter already populated", zap.Int("words", count))
		return 0, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to build blocklist request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to download blocklist: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("bad status code from blocklist URL: %d", resp.StatusCode)
	}

	added, err := db.LoadBlockedWords(ctx, resp.Body)
	if err != nil {
		return added, err
	}
	logger.Info("name filter populated", zap.Int("words", added))
	return added, nil
}

// LoadBlockedWords inserts one word per line from r
func (db *DB) LoadBlockedWords(ctx context.Context, r io.Reader) (int, error) {
	added := 0
	err := db.WithTx(ctx, func(tx *Tx) error {
		seen := make(map[string]bool)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			word := strings.ToLower(strings.TrimSpace(scanner.Text()))
			if word == "" || seen[word] {
				continue
			}
			seen[word] = true
			if _, err := tx.ExecContext(ctx, "INSERT INTO blocked_words (word) VALUES (?)", word); err != nil {
				return err
			}
			added++
		}
		return scanner.Err()
	})
	if err != nil {
		return 0, fmt.Errorf("failed to load blocked words: %w", err)
	}
	return added, nil
}

// IsBlockedName reports whether the name, or any word in it, is on the blocklist
func (db *DB) IsBlockedName(ctx context.Context, name string) (bool, error) {
	candidates := nameTokens(name)
	if len(candidates) == 0 {
		return false, nil
	}

	query := "SELECT COUNT(*) FROM blocked_words WHERE word IN (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(candidates)), ", ") + ")"
	args := make([]any, len(candidates))
	for i, c := range candidates {
		args[i] = c
	}

	var count int
	if err := db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check name: %w", err)
	}
	return count > 0, nil
}

// nameTokens lower-cases the whole name and each letter run inside it
func nameTokens(name string) []string {
	whole := strings.ToLower(strings.TrimSpace(name))
	if whole == "" {
		return nil
	}
	seen := map[string]bool{whole: true}
	out := []string{whole}
	for _, w := range strings.FieldsFunc(whole, func(r rune) bool { return !unicode.IsLetter(r) }) {
		if !seen[w] {
			seen[w] = true
			out = append(out, w)
		}
	}
	return out
}
