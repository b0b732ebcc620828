// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

// Package fakeconsole simulates the object-storage console: the backend
// bucket store with eventually consistent listings and a DOM driver over
// the rendered screens. It lets page objects and scenarios be exercised
// without a real browser.
package fakeconsole

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"sort"
	"sync"
	"time"

	"github.com/zeebo/errs"
)

// Error is the fake console error class.
var Error = errs.Class("fakeconsole")

// Config configures the simulated console.
type Config struct {
	AccessKey string
	SecretKey string

	// CommitDelay is how long a bucket mutation takes to show up in listings.
	CommitDelay time.Duration
	// ModalDelay is how long the delete confirmation takes to mount.
	ModalDelay time.Duration
	// LoginDelay is how long the post-login redirect takes.
	LoginDelay time.Duration
	// ReplicationLicensed renders the replication tab.
	ReplicationLicensed bool
}

// Rule is a configured lifecycle rule.
type Rule struct {
	Version string
}

type bucket struct {
	visibleAt time.Time
	deletedAt time.Time
	rules     []Rule
}

func (b *bucket) live() bool { return b.deletedAt.IsZero() }

// Console is the simulated backend shared by all browsers.
type Console struct {
	config Config

	mu      sync.Mutex
	buckets map[string]*bucket
	tokens  map[string]bool
	logins  int
}

// New creates a new console.
func New(config Config) *Console {
	return &Console{
		config:  config,
		buckets: map[string]*bucket{},
		tokens:  map[string]bool{},
	}
}

// Config returns the console configuration.
func (console *Console) Config() Config { return console.config }

// Logins returns how many interactive logins succeeded.
func (console *Console) Logins() int {
	console.mu.Lock()
	defer console.mu.Unlock()
	return console.logins
}

// RevokeSessions invalidates every issued session token.
func (console *Console) RevokeSessions() {
	console.mu.Lock()
	defer console.mu.Unlock()
	console.tokens = map[string]bool{}
}

// Seed creates buckets that are immediately visible in listings.
func (console *Console) Seed(names ...string) {
	console.mu.Lock()
	defer console.mu.Unlock()
	for _, name := range names {
		console.buckets[name] = &bucket{}
	}
}

// EnsureBucket creates the bucket when it does not exist.
func (console *Console) EnsureBucket(ctx context.Context, name string) error {
	console.mu.Lock()
	defer console.mu.Unlock()
	if b, ok := console.buckets[name]; ok && b.live() {
		return nil
	}
	console.buckets[name] = &bucket{visibleAt: time.Now().Add(console.config.CommitDelay)}
	return nil
}

// DeleteBucket removes the bucket. Deleting a missing bucket is a no-op.
func (console *Console) DeleteBucket(ctx context.Context, name string) error {
	console.mu.Lock()
	defer console.mu.Unlock()
	console.deleteBucket(name)
	return nil
}

// BucketExists reports whether the backend holds the bucket, regardless of
// whether listings already reflect it.
func (console *Console) BucketExists(ctx context.Context, name string) (bool, error) {
	console.mu.Lock()
	defer console.mu.Unlock()
	b, ok := console.buckets[name]
	return ok && b.live(), nil
}

// Rules returns the lifecycle rules of a bucket.
func (console *Console) Rules(name string) []Rule {
	console.mu.Lock()
	defer console.mu.Unlock()
	if b, ok := console.buckets[name]; ok {
		return append([]Rule(nil), b.rules...)
	}
	return nil
}

func (console *Console) createBucket(name string) error {
	console.mu.Lock()
	defer console.mu.Unlock()
	if b, ok := console.buckets[name]; ok && b.live() {
		return Error.New("bucket %q already exists", name)
	}
	console.buckets[name] = &bucket{visibleAt: time.Now().Add(console.config.CommitDelay)}
	return nil
}

func (console *Console) deleteBucket(name string) {
	b, ok := console.buckets[name]
	if !ok || !b.live() {
		return
	}
	b.deletedAt = time.Now().Add(console.config.CommitDelay)
}

func (console *Console) addRule(name string, rule Rule) error {
	console.mu.Lock()
	defer console.mu.Unlock()
	b, ok := console.buckets[name]
	if !ok || !b.live() {
		return Error.New("bucket %q not found", name)
	}
	b.rules = append(b.rules, rule)
	return nil
}

// exists reports whether the bucket can be opened.
func (console *Console) exists(name string) bool {
	console.mu.Lock()
	defer console.mu.Unlock()
	b, ok := console.buckets[name]
	return ok && b.live()
}

// listing returns the bucket names a listing made now would show.
func (console *Console) listing() []string {
	console.mu.Lock()
	defer console.mu.Unlock()

	now := time.Now()
	var names []string
	for name, b := range console.buckets {
		if now.Before(b.visibleAt) {
			continue
		}
		if !b.deletedAt.IsZero() && !now.Before(b.deletedAt) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (console *Console) login(accessKey, secretKey string) (string, bool) {
	if accessKey == "" || accessKey != console.config.AccessKey || secretKey != console.config.SecretKey {
		return "", false
	}

	var raw [16]byte
	_, _ = rand.Read(raw[:])
	token := hex.EncodeToString(raw[:])

	console.mu.Lock()
	defer console.mu.Unlock()
	console.tokens[token] = true
	console.logins++
	return token, true
}

func (console *Console) validToken(token string) bool {
	console.mu.Lock()
	defer console.mu.Unlock()
	return console.tokens[token]
}
