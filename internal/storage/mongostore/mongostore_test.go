package mongostore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"

	"github.com/mmynk/hecovacka/internal/storage"
	"github.com/mmynk/hecovacka/internal/storage/storetest"
)

// TestMongoStore runs the shared suite against a real deployment when
// TEST_MONGODB_URI is set. Each subtest gets its own database.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("TEST_MONGODB_URI")
	if uri == "" {
		t.Skip("TEST_MONGODB_URI not set")
	}

	storetest.Run(t, func(t *testing.T) storage.Store {
		store, err := open(context.Background(), uri, "hecovacka_test_"+uuid.NewString()[:8])
		if err != nil {
			t.Fatalf("Failed to open store: %v", err)
		}
		t.Cleanup(func() {
			store.db.Drop(context.Background())
			store.Close()
		})
		return store
	})
}

func TestDatabaseName(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"mongodb://localhost:27017", DefaultDatabase, false},
		{"mongodb://localhost:27017/", DefaultDatabase, false},
		{"mongodb://localhost:27017/accountability", "accountability", false},
		{"mongodb://user:pw@db1,db2/app?replicaSet=rs0", "app", false},
		{"postgres://localhost/h", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			got, err := databaseName(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("databaseName(%q) error = %v, wantErr %v", tt.uri, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("databaseName(%q) = %q, want %q", tt.uri, got, tt.want)
			}
		})
	}
}
