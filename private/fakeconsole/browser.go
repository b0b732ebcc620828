// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fakeconsole

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"storj.io/console-uitest/pkg/browser"
)

// sessionCookie is the name of the cookie holding the console session.
const sessionCookie = "token"

// Browser is an isolated browser context on the console. It implements
// browser.Driver.
type Browser struct {
	console *Console

	mu      sync.Mutex
	closed  bool
	origin  string
	path    string
	cookies map[string]browser.Cookie
	local   map[string]map[string]string

	form     map[string]string
	notice   string
	snapshot []string
	redirect time.Time
	modalAt  time.Time
	ruleForm bool
	menu     bool
	version  string
}

var _ browser.Driver = (*Browser)(nil)

// NewBrowser opens a new isolated browser context.
func (console *Console) NewBrowser() *Browser {
	return &Browser{
		console: console,
		origin:  "about:",
		path:    "blank",
		cookies: map[string]browser.Cookie{},
		local:   map[string]map[string]string{},
		form:    map[string]string{},
	}
}

// Navigate implements browser.Driver.
func (b *Browser) Navigate(ctx context.Context, rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return Error.Wrap(err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Error.New("navigate: absolute url required: %q", rawURL)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return Error.New("browser closed")
	}
	b.origin = u.Scheme + "://" + u.Host
	b.goTo(u.Path)
	return nil
}

// URL implements browser.Driver.
func (b *Browser) URL(ctx context.Context) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.settle()
	if b.origin == "about:" {
		return "about:blank", nil
	}
	return b.origin + b.path, nil
}

// Query implements browser.Driver.
func (b *Browser) Query(ctx context.Context, query browser.Query) ([]browser.Element, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, Error.New("browser closed")
	}

	doc, err := b.document()
	if err != nil {
		return nil, err
	}

	var selection *goquery.Selection
	switch query.Kind {
	case browser.KindCSS:
		matcher, err := cascadia.Compile(query.Selector)
		if err != nil {
			return nil, Error.New("invalid selector %q: %v", query.Selector, err)
		}
		selection = doc.FindMatcher(matcher)
	case browser.KindRole:
		selection = doc.Find(browser.RoleSelector(query.Role)).FilterFunction(func(_ int, s *goquery.Selection) bool {
			return browser.MatchText(accessibleName(s), query.Name)
		})
	case browser.KindPlaceholder:
		selection = doc.Find("[placeholder]").FilterFunction(func(_ int, s *goquery.Selection) bool {
			return browser.MatchText(s.AttrOr("placeholder", ""), query.Name)
		})
	default:
		return nil, Error.New("unsupported query kind %q", query.Kind)
	}

	elements := make([]browser.Element, 0, selection.Length())
	selection.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &element{
			browser: b,
			key:     s.AttrOr("data-key", ""),
			name:    s.AttrOr("name", ""),
			text:    strings.TrimSpace(s.Text()),
		})
	})
	return elements, nil
}

// StorageState implements browser.Driver.
func (b *Browser) StorageState(ctx context.Context) (*browser.StorageState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	state := &browser.StorageState{
		Cookies: []browser.Cookie{},
		Origins: []browser.Origin{},
	}
	for _, cookie := range b.cookies {
		state.Cookies = append(state.Cookies, cookie)
	}
	sort.Slice(state.Cookies, func(i, k int) bool { return state.Cookies[i].Name < state.Cookies[k].Name })

	for origin, items := range b.local {
		entry := browser.Origin{Origin: origin}
		for name, value := range items {
			entry.LocalStorage = append(entry.LocalStorage, browser.NameValue{Name: name, Value: value})
		}
		sort.Slice(entry.LocalStorage, func(i, k int) bool { return entry.LocalStorage[i].Name < entry.LocalStorage[k].Name })
		state.Origins = append(state.Origins, entry)
	}
	sort.Slice(state.Origins, func(i, k int) bool { return state.Origins[i].Origin < state.Origins[k].Origin })
	return state, nil
}

// SetStorageState implements browser.Driver.
func (b *Browser) SetStorageState(ctx context.Context, state *browser.StorageState) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if state == nil {
		return nil
	}
	for _, cookie := range state.Cookies {
		b.cookies[cookie.Name] = cookie
	}
	for _, origin := range state.Origins {
		items := b.local[origin.Origin]
		if items == nil {
			items = map[string]string{}
			b.local[origin.Origin] = items
		}
		for _, entry := range origin.LocalStorage {
			items[entry.Name] = entry.Value
		}
	}
	return nil
}

// Close implements browser.Driver.
func (b *Browser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// authenticated reports whether the session cookie is valid.
func (b *Browser) authenticated() bool {
	cookie, ok := b.cookies[sessionCookie]
	return ok && b.console.validToken(cookie.Value)
}

// goTo switches screens, resetting per-screen state.
func (b *Browser) goTo(path string) {
	if path == "" || path == "/" {
		path = "/buckets"
	}
	if path != "/login" && !b.authenticated() {
		path = "/login"
	}

	b.path = path
	b.form = map[string]string{}
	b.notice = ""
	b.redirect = time.Time{}
	b.modalAt = time.Time{}
	b.ruleForm = false
	b.menu = false
	b.version = versionOptions[0]

	if path == "/buckets" {
		b.snapshot = b.console.listing()
	}
}

// settle applies pending transitions that depend on time.
func (b *Browser) settle() {
	if !b.redirect.IsZero() && !time.Now().Before(b.redirect) {
		b.goTo("/buckets")
	}
}

// route splits the current path into a screen, bucket and tab.
func (b *Browser) route() (screen, string, string) {
	switch b.path {
	case "/login":
		return screenLogin, "", ""
	case "/buckets":
		return screenBuckets, "", ""
	case "/buckets/add-bucket":
		return screenAddBucket, "", ""
	}

	parts := strings.Split(strings.Trim(b.path, "/"), "/")
	if len(parts) >= 3 && parts[0] == "buckets" && parts[2] == "admin" {
		name, err := url.PathUnescape(parts[1])
		if err != nil || !b.console.exists(name) {
			return screenNotFound, name, ""
		}
		tab := "summary"
		if len(parts) >= 4 && parts[3] != "" {
			tab = parts[3]
		}
		return screenAdmin, name, tab
	}
	return screenNotFound, "", ""
}

func (b *Browser) view() view {
	b.settle()

	current, bucket, tab := b.route()
	v := view{
		Screen:      current,
		Notice:      b.notice,
		Form:        b.form,
		Buckets:     b.snapshot,
		Bucket:      bucket,
		Tab:         tab,
		ModalOpen:   !b.modalAt.IsZero() && !time.Now().Before(b.modalAt),
		RuleForm:    b.ruleForm,
		VersionMenu: b.menu,
		Version:     b.version,
		Options:     versionOptions,
	}
	if current == screenAdmin {
		for _, t := range tabs {
			if t.Licensed && !b.console.config.ReplicationLicensed {
				continue
			}
			v.Tabs = append(v.Tabs, tabView{ID: t.ID, Label: t.Label, Selected: t.ID == tab})
		}
		v.Rules = b.console.Rules(bucket)
	}
	return v
}

func (b *Browser) document() (*goquery.Document, error) {
	html, err := render(b.view())
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, Error.Wrap(err)
	}
	return doc, nil
}

// lookup finds the currently rendered element with the given key.
func (b *Browser) lookup(key string) (*goquery.Selection, error) {
	doc, err := b.document()
	if err != nil {
		return nil, err
	}
	selection := doc.Find("[data-key]").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.AttrOr("data-key", "") == key
	})
	if selection.Length() == 0 {
		return nil, browser.ErrStale.New("element %q is no longer attached", key)
	}
	return selection.First(), nil
}

func accessibleName(s *goquery.Selection) string {
	if label, ok := s.Attr("aria-label"); ok {
		return label
	}
	if text := strings.TrimSpace(s.Text()); text != "" {
		return text
	}
	return s.AttrOr("value", "")
}
