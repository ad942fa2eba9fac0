package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/masonry/internal/contacts"
)

func seededStore(t *testing.T) *contacts.MemoryStore {
	t.Helper()
	store := contacts.NewMemoryStore()
	base := time.Date(2025, 5, 6, 7, 8, 0, 0, time.UTC)
	for i, name := range []string{"ada", "grace"} {
		c := contacts.New(map[string]any{"name": name, "email": name + "@example.com"}, base.Add(time.Duration(i)*time.Hour))
		if err := store.Save(t.Context(), c); err != nil {
			t.Fatal(err)
		}
	}
	return store
}

func TestListContactsTable(t *testing.T) {
	var out bytes.Buffer
	if err := listContacts(t.Context(), seededStore(t), &out, 0, false); err != nil {
		t.Fatal(err)
	}
	got := out.String()
	for _, want := range []string{"Received", "email=grace@example.com name=grace", "2025-05-06 08:08"} {
		if !strings.Contains(got, want) {
			t.Errorf("table missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "grace") > strings.Index(got, "ada") {
		t.Error("contacts should be listed newest first")
	}
}

func TestListContactsJSONLimit(t *testing.T) {
	var out bytes.Buffer
	if err := listContacts(t.Context(), seededStore(t), &out, 1, true); err != nil {
		t.Fatal(err)
	}
	var list []contacts.Contact
	if err := json.Unmarshal(out.Bytes(), &list); err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].Data["name"] != "grace" {
		t.Errorf("list = %+v, want only the newest contact", list)
	}
}

func TestListContactsEmpty(t *testing.T) {
	var out bytes.Buffer
	if err := listContacts(t.Context(), contacts.NewMemoryStore(), &out, 0, false); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "No contacts yet") {
		t.Errorf("output = %q", out.String())
	}
}

func TestContactsCommandMemoryStore(t *testing.T) {
	out := captureStdout(t)
	if err := runCLI(t, "contacts"); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "in memory") {
		t.Errorf("output = %q", out.String())
	}
}
