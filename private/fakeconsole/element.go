// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fakeconsole

import (
	"context"
	"net/url"
	"strings"
	"time"

	"storj.io/console-uitest/pkg/browser"
)

// element is a handle to a rendered node, identified by its data-key.
type element struct {
	browser *Browser
	key     string
	name    string
	text    string
}

// Click implements browser.Element.
func (el *element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if el.key == "" {
		return Error.New("element %q is not interactive", el.text)
	}

	b := el.browser
	b.mu.Lock()
	defer b.mu.Unlock()

	node, err := b.lookup(el.key)
	if err != nil {
		return err
	}

	_, bucket, _ := b.route()
	switch node.AttrOr("data-action", "") {
	case "login":
		token, ok := b.console.login(b.form["accessKey"], b.form["secretKey"])
		if !ok {
			b.notice = "Invalid Login"
			return nil
		}
		host := strings.TrimPrefix(strings.TrimPrefix(b.origin, "https://"), "http://")
		b.cookies[sessionCookie] = browser.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Domain:   host,
			Path:     "/",
			Expires:  -1,
			HTTPOnly: true,
			SameSite: "Lax",
		}
		items := b.local[b.origin]
		if items == nil {
			items = map[string]string{}
			b.local[b.origin] = items
		}
		items["userLoggedIn"] = "true"
		b.redirect = time.Now().Add(b.console.config.LoginDelay)
		b.settle()

	case "goto-create":
		b.goTo("/buckets/add-bucket")

	case "refresh":
		b.snapshot = b.console.listing()

	case "create-bucket":
		name := strings.TrimSpace(b.form["bucketName"])
		if name == "" {
			b.notice = "Bucket name is required"
			return nil
		}
		if err := b.console.createBucket(name); err != nil {
			b.notice = "Bucket already exists"
			return nil
		}
		b.goTo("/buckets")

	case "open-bucket":
		b.goTo("/buckets/" + url.PathEscape(node.AttrOr("data-bucket", "")) + "/admin")

	case "tab":
		b.goTo("/buckets/" + url.PathEscape(bucket) + "/admin/" + node.AttrOr("data-tab", ""))

	case "delete":
		if b.modalAt.IsZero() {
			b.modalAt = time.Now().Add(b.console.config.ModalDelay)
		}

	case "confirm-delete":
		b.console.mu.Lock()
		b.console.deleteBucket(bucket)
		b.console.mu.Unlock()
		b.goTo("/buckets")

	case "cancel-delete":
		b.modalAt = time.Time{}

	case "set-replication":
		b.goTo("/buckets/" + url.PathEscape(bucket) + "/admin/replication/add")

	case "add-rule":
		b.ruleForm = true
		b.menu = false
		b.version = versionOptions[0]

	case "open-version":
		b.menu = !b.menu

	case "option":
		b.version = node.AttrOr("data-value", b.version)
		b.menu = false

	case "save-rule":
		if err := b.console.addRule(bucket, Rule{Version: b.version}); err != nil {
			b.notice = err.Error()
			return nil
		}
		b.ruleForm = false
		b.menu = false
	}
	return nil
}

// Fill implements browser.Element.
func (el *element) Fill(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if el.name == "" {
		return Error.New("element %q is not an input", el.key)
	}

	b := el.browser
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, err := b.lookup(el.key); err != nil {
		return err
	}
	b.form[el.name] = text
	return nil
}

// Text implements browser.Element.
func (el *element) Text(ctx context.Context) (string, error) {
	return el.text, ctx.Err()
}
