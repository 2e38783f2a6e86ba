// Package catalog holds the fabric catalog shown on the site and summarised to
// the assistant.
package catalog

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"sync"
)

//go:embed data.json
var defaultData []byte

// AllCategories is the category filter that matches every item.
const AllCategories = "All"

type Item struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Price       string   `json:"price"`
	Origin      string   `json:"origin"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Colors      []string `json:"colors"`
}

// ProjectedItem is the reduced view sent to the language model. Keys are kept
// to one letter so the prompt stays small.
type ProjectedItem struct {
	ID       int    `json:"id"`
	Name     string `json:"n"`
	Category string `json:"c"`
	Price    string `json:"p"`
	Origin   string `json:"o"`
}

var ErrDuplicateID = errors.New("catalog: duplicate item id")

// Catalog is safe for concurrent use; Replace swaps the whole item set.
type Catalog struct {
	mu    sync.RWMutex
	items []Item
	byID  map[int]int
}

func New(items []Item) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(items); err != nil {
		return nil, err
	}
	return c, nil
}

// Default returns the catalog bundled with the binary.
func Default() (*Catalog, error) {
	items, err := Parse(defaultData)
	if err != nil {
		return nil, err
	}
	return New(items)
}

func Parse(data []byte) ([]Item, error) {
	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}
	return items, nil
}

func Load(r io.Reader) ([]Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func LoadFile(path string) ([]Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Load(f)
}

// Replace validates items and swaps them in. On error the previous items stay.
func (c *Catalog) Replace(items []Item) error {
	byID := make(map[int]int, len(items))
	for i, it := range items {
		if _, dup := byID[it.ID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateID, it.ID)
		}
		byID[it.ID] = i
	}
	cp := make([]Item, len(items))
	copy(cp, items)

	c.mu.Lock()
	c.items = cp
	c.byID = byID
	c.mu.Unlock()
	return nil
}

func (c *Catalog) Items() []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Catalog) ByID(id int) (Item, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

func (c *Catalog) Projection() []ProjectedItem {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]ProjectedItem, 0, len(c.items))
	for _, it := range c.items {
		out = append(out, ProjectedItem{ID: it.ID, Name: it.Name, Category: it.Category, Price: it.Price, Origin: it.Origin})
	}
	return out
}

// Search matches query as a case-insensitive substring of name or category,
// restricted to category unless it is empty or AllCategories.
func (c *Catalog) Search(query, category string) []Item {
	q := strings.ToLower(strings.TrimSpace(query))
	anyCategory := category == "" || category == AllCategories

	c.mu.RLock()
	defer c.mu.RUnlock()
	out := []Item{}
	for _, it := range c.items {
		if !anyCategory && it.Category != category {
			continue
		}
		if strings.Contains(strings.ToLower(it.Name), q) || strings.Contains(strings.ToLower(it.Category), q) {
			out = append(out, it)
		}
	}
	return out
}

// Categories lists AllCategories followed by each distinct category in
// catalog order.
func (c *Catalog) Categories() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	seen := map[string]bool{}
	out := []string{AllCategories}
	for _, it := range c.items {
		if seen[it.Category] {
			continue
		}
		seen[it.Category] = true
		out = append(out, it.Category)
	}
	return out
}

func (c *Catalog) Featured(n int) []Item {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if n < 0 {
		n = 0
	}
	if n > len(c.items) {
		n = len(c.items)
	}
	out := make([]Item, n)
	copy(out, c.items[:n])
	return out
}

// OrderLink builds the WhatsApp deep link that opens a pre-filled order
// message for item.
func OrderLink(phone string, item Item) string {
	msg := fmt.Sprintf("Halo, saya ingin memesan %s apakah tersedia?", item.Name)
	return fmt.Sprintf("https://wa.me/%s?text=%s", phone, strings.ReplaceAll(url.QueryEscape(msg), "+", "%20"))
}
