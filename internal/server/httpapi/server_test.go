package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mapsketch/mapsketch/internal/client/api"
	"github.com/mapsketch/mapsketch/internal/common"
	"github.com/mapsketch/mapsketch/internal/geo"
	"github.com/mapsketch/mapsketch/internal/geojson"
	"github.com/mapsketch/mapsketch/internal/logging"
	"github.com/mapsketch/mapsketch/internal/server/config"
	"github.com/mapsketch/mapsketch/internal/server/repositories/repomanager"
	"github.com/mapsketch/mapsketch/internal/server/services"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cfg := &config.Config{
		SecretKey:             "test-secret",
		TokenValidityDuration: time.Hour,
		AdminUsername:         "root",
	}
	rm := repomanager.NewInMemoryRepositoryManager()
	log := logging.NewDefault()

	us := services.NewUserService(nil, rm, cfg)
	ds := services.NewDocumentService(nil, rm, cfg)
	ss := services.NewSnapshotService(cfg)

	s, err := NewServer(":0", log, us, ds, ss)
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}

	srv := httptest.NewServer(s.Routes())
	t.Cleanup(srv.Close)
	return srv
}

func testDocument(t *testing.T) *geojson.FeatureCollection {
	t.Helper()

	doc := geo.NewDocument()

	marker, err := geo.NewShape(geo.KindPoint, []geo.LatLng{{Lat: 10, Lng: 20}}, "Marker")
	if err != nil {
		t.Fatalf("NewShape error: %v", err)
	}
	doc.Add(marker)

	polygon, err := geo.NewShape(geo.KindPolygon, []geo.LatLng{
		{Lat: 0, Lng: 0}, {Lat: 0, Lng: 1}, {Lat: 1, Lng: 1},
	}, "Polygon")
	if err != nil {
		t.Fatalf("NewShape error: %v", err)
	}
	doc.Add(polygon)

	fc, err := geojson.Export(doc)
	if err != nil {
		t.Fatalf("Export error: %v", err)
	}
	return fc
}

// Register, draw, save, log out, log back in and reload: the round trip a
// user makes across two sessions.
func TestServer_SaveLogoutLoginLoad(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	c := api.New(srv.URL, logging.NewDefault())

	if err := c.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	fc := testDocument(t)
	if err := c.SaveDocument(ctx, "map1", fc); err != nil {
		t.Fatalf("SaveDocument error: %v", err)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout error: %v", err)
	}
	if c.LoggedIn() {
		t.Fatal("client must drop the session on logout")
	}

	if err := c.Login(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Login error: %v", err)
	}

	names, err := c.ListDocuments(ctx)
	if err != nil {
		t.Fatalf("ListDocuments error: %v", err)
	}
	if len(names) != 1 || names[0] != "map1" {
		t.Fatalf("names = %v, want [map1]", names)
	}

	loaded, err := c.LoadDocument(ctx, "map1")
	if err != nil {
		t.Fatalf("LoadDocument error: %v", err)
	}

	doc, err := geojson.Import(loaded)
	if err != nil {
		t.Fatalf("Import error: %v", err)
	}
	if doc.Len() != 2 {
		t.Fatalf("loaded %d shapes, want 2", doc.Len())
	}

	shapes := doc.Shapes()
	if shapes[0].Kind != geo.KindPoint || shapes[0].Vertices[0] != (geo.LatLng{Lat: 10, Lng: 20}) {
		t.Fatalf("marker did not survive the round trip: %+v", shapes[0])
	}
	if shapes[1].Kind != geo.KindPolygon || len(shapes[1].Vertices) != 3 {
		t.Fatalf("polygon did not survive the round trip: %+v", shapes[1])
	}
}

func TestServer_SaveReplacesDocument(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	c := api.New(srv.URL, logging.NewDefault())
	if err := c.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	if err := c.SaveDocument(ctx, "map1", testDocument(t)); err != nil {
		t.Fatalf("first save: %v", err)
	}

	empty := &geojson.FeatureCollection{Type: "FeatureCollection", Features: []geojson.Feature{}}
	if err := c.SaveDocument(ctx, "map1", empty); err != nil {
		t.Fatalf("second save: %v", err)
	}

	loaded, err := c.LoadDocument(ctx, "map1")
	if err != nil {
		t.Fatalf("LoadDocument error: %v", err)
	}
	if len(loaded.Features) != 0 {
		t.Fatalf("save must replace the whole document, got %d features", len(loaded.Features))
	}
}

func TestServer_ErrorStatuses(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	c := api.New(srv.URL, logging.NewDefault())

	// unauthenticated access
	if _, err := c.ListDocuments(ctx); !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}

	if err := c.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	// duplicate username
	c2 := api.New(srv.URL, logging.NewDefault())
	if err := c2.Register(ctx, "alice", "other"); !errors.Is(err, common.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}

	// wrong password
	if err := c2.Login(ctx, "alice", "nope"); !errors.Is(err, common.ErrInvalidCredentials) && !errors.Is(err, common.ErrUnauthenticated) {
		t.Fatalf("expected credentials error, got %v", err)
	}

	// missing document
	if _, err := c.LoadDocument(ctx, "ghost"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// malformed payload goes through raw HTTP to bypass client-side marshalling
	body, _ := json.Marshal(map[string]any{"name": "bad", "geojson": json.RawMessage(`{"type":"Nope"}`)})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/api/documents", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token())

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", resp.StatusCode)
	}
}

func TestServer_AdminGate(t *testing.T) {
	srv := newTestServer(t)
	ctx := context.Background()

	alice := api.New(srv.URL, logging.NewDefault())
	if err := alice.Register(ctx, "alice", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if err := alice.SaveDocument(ctx, "map1", testDocument(t)); err != nil {
		t.Fatalf("SaveDocument error: %v", err)
	}

	// regular users are rejected
	if _, err := alice.AdminListDocuments(ctx); !errors.Is(err, common.ErrPermissionDenied) {
		t.Fatalf("expected ErrPermissionDenied, got %v", err)
	}

	// the configured admin username gets the role at registration
	root := api.New(srv.URL, logging.NewDefault())
	if err := root.Register(ctx, "root", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if root.Role() != "admin" {
		t.Fatalf("root role = %q, want admin", root.Role())
	}

	infos, err := root.AdminListDocuments(ctx)
	if err != nil {
		t.Fatalf("AdminListDocuments error: %v", err)
	}
	if len(infos) != 1 || infos[0].Owner != "alice" || infos[0].Name != "map1" {
		t.Fatalf("infos = %+v", infos)
	}

	loaded, err := root.AdminLoadDocument(ctx, "alice", "map1")
	if err != nil {
		t.Fatalf("AdminLoadDocument error: %v", err)
	}
	if len(loaded.Features) != 2 {
		t.Fatalf("admin load: %d features, want 2", len(loaded.Features))
	}

	// owner scoping still applies to the regular endpoints
	bob := api.New(srv.URL, logging.NewDefault())
	if err := bob.Register(ctx, "bob", "pw"); err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if _, err := bob.LoadDocument(ctx, "map1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("bob must not see alice's document, got %v", err)
	}
}

func TestServer_Health(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
}
