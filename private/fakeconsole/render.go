// Copyright (C) 2026 Storj Labs, Inc.
// See LICENSE for copying information.

package fakeconsole

import (
	"html/template"
	"strings"
)

type screen string

const (
	screenLogin     screen = "login"
	screenBuckets   screen = "buckets"
	screenAddBucket screen = "add-bucket"
	screenAdmin     screen = "admin"
	screenNotFound  screen = "not-found"
)

// tabs rendered on the bucket admin screen, in order.
var tabs = []struct {
	ID, Label string
	Licensed  bool
}{
	{"summary", "Summary", false},
	{"events", "Events", false},
	{"replication", "Replication", true},
	{"lifecycle", "Lifecycle", false},
	{"access", "Access", false},
}

// versionOptions are the entries of the lifecycle version dropdown.
var versionOptions = []string{"Current Version", "Non-Current Version"}

type tabView struct {
	ID, Label string
	Selected  bool
}

type view struct {
	Screen      screen
	Notice      string
	Form        map[string]string
	Buckets     []string
	Bucket      string
	Tab         string
	Tabs        []tabView
	ModalOpen   bool
	RuleForm    bool
	VersionMenu bool
	Version     string
	Options     []string
	Rules       []Rule
}

var page = template.Must(template.New("console").Parse(`<!DOCTYPE html>
<html><head><title>Console</title></head><body>
{{- if .Notice}}<div class="notice" role="alert">{{.Notice}}</div>{{end}}
{{- if eq .Screen "login"}}
<form id="login-form">
<input name="accessKey" placeholder="Username" data-key="input:accessKey" value="{{index .Form "accessKey"}}">
<input name="secretKey" type="password" placeholder="Password" data-key="input:secretKey" value="{{index .Form "secretKey"}}">
<button type="submit" data-key="login" data-action="login">Login</button>
</form>
{{- else if eq .Screen "buckets"}}
<h1>Buckets</h1>
<button id="create-bucket" data-key="create-bucket" data-action="goto-create">Create Bucket</button>
<button id="refresh-buckets" data-key="refresh-buckets" data-action="refresh">Refresh</button>
<div id="bucket-list">
{{- range .Buckets}}
<div id="manageBucket-{{.}}" class="bucket-row" data-key="row:{{.}}" data-action="open-bucket" data-bucket="{{.}}">{{.}}</div>
{{- end}}
</div>
{{- else if eq .Screen "add-bucket"}}
<h1>Create Bucket</h1>
<input name="bucketName" placeholder="Enter Bucket Name" data-key="input:bucketName" value="{{index .Form "bucketName"}}">
<button type="submit" data-key="submit-bucket" data-action="create-bucket">Create Bucket</button>
{{- else if eq .Screen "admin"}}
<h1>{{.Bucket}}</h1>
<div role="tablist">
{{- range .Tabs}}
<button role="tab" id="{{.ID}}" data-key="tab:{{.ID}}" data-action="tab" data-tab="{{.ID}}" aria-selected="{{.Selected}}">{{.Label}}</button>
{{- end}}
</div>
<button id="delete-bucket-button" data-key="delete-bucket-button" data-action="delete">Delete Bucket</button>
{{- if eq .Tab "summary"}}
<div id="summary-panel">Bucket {{.Bucket}}</div>
{{- else if eq .Tab "replication"}}
<button id="set-replication" data-key="set-replication" data-action="set-replication">Add Replication Rule</button>
{{- else if eq .Tab "lifecycle"}}
<button data-key="add-rule" data-action="add-rule">Add Lifecycle Rule</button>
<table id="lifecycle-rules">
{{- range .Rules}}
<tr class="lifecycle-rule"><td>{{.Version}}</td></tr>
{{- end}}
</table>
{{- if .RuleForm}}
<div id="rule-form" role="dialog">
<div id="object_version-select"><div role="combobox" data-key="version-select" data-action="open-version">{{.Version}}</div>
{{- if .VersionMenu}}
<ul role="listbox">
{{- range .Options}}
<li role="option" data-key="option:{{.}}" data-action="option" data-value="{{.}}">{{.}}</li>
{{- end}}
</ul>
{{- end}}
</div>
<button data-key="save-rule" data-action="save-rule">Save</button>
</div>
{{- end}}
{{- end}}
{{- if .ModalOpen}}
<div id="delete-modal" role="dialog">
<p>Are you sure you want to delete {{.Bucket}}?</p>
<button id="confirm-ok" data-key="confirm-ok" data-action="confirm-delete">Delete</button>
<button id="confirm-cancel" data-key="confirm-cancel" data-action="cancel-delete">Cancel</button>
</div>
{{- end}}
{{- else}}
<h1>Bucket not found</h1>
{{- end}}
</body></html>
`))

func render(v view) (string, error) {
	var b strings.Builder
	if err := page.Execute(&b, v); err != nil {
		return "", Error.Wrap(err)
	}
	return b.String(), nil
}
