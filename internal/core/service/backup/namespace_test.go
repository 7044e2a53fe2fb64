package backup_test

import (
	"testing"

	"github.com/JesuSe7e/api-envio-ftp/internal/core/service/backup"
	"github.com/stretchr/testify/assert"
)

func TestResolveDirectory(t *testing.T) {
	tests := []struct {
		name       string
		baseFolder string
		token      string
		expected   string
	}{
		{name: "strips unsafe characters", baseFolder: "backups", token: "abc!!123", expected: "/backups/abc123"},
		{name: "keeps dash and underscore", baseFolder: "backups", token: "tok-1_A", expected: "/backups/tok-1_A"},
		{name: "empty base folder", baseFolder: "", token: "tok-1", expected: "/tok-1"},
		{name: "rooted base folder", baseFolder: "/backups/", token: "tok-1", expected: "/backups/tok-1"},
		{name: "nested base folder", baseFolder: "a/b", token: "tok", expected: "/a/b/tok"},
		{name: "path traversal in token", baseFolder: "backups", token: "../../etc", expected: "/backups/etc"},
		{name: "path traversal in base folder", baseFolder: "../x", token: "tok", expected: "/x/tok"},
		{name: "unicode removed", baseFolder: "backups", token: "ação-1", expected: "/backups/ao-1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, backup.ResolveDirectory(tt.baseFolder, tt.token))
		})
	}
}

func TestResolveDirectory_Collision(t *testing.T) {
	// Act
	first := backup.ResolveDirectory("backups", "abc!!123")
	second := backup.ResolveDirectory("backups", "a.b.c 1/2/3")

	// Assert
	assert.Equal(t, first, second)
}

func TestResolveDirectory_EmptyTokenPanics(t *testing.T) {
	assert.Panics(t, func() {
		backup.ResolveDirectory("backups", "")
	})
}

func TestSanitizeToken(t *testing.T) {
	assert.Equal(t, "abc123", backup.SanitizeToken("a b\tc;1'2\"3"))
	assert.Equal(t, "", backup.SanitizeToken("!!!"))
}
