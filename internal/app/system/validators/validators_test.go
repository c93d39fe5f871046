package validators_test

import (
	"testing"
	"time"

	"github.com/dalemusser/hackreg/internal/app/system/validators"
	"github.com/dalemusser/hackreg/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
)

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := validators.EnsureAll(ctx, db)
	if err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesApplicantsCollection(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{"name": "applicants"})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	if len(names) != 1 {
		t.Errorf("expected applicants collection to exist, got %v", names)
	}
}

func validApplicant() bson.M {
	return bson.M{
		"_id":             "3c1f6d7e-0000-4000-8000-000000000001",
		"created_at":      time.Now().UTC(),
		"full_name":       "Ada Lovelace",
		"email":           "ada@example.edu",
		"email_ci":        "ada@example.edu",
		"university":      "",
		"track_selection": "advanced",
		"skills":          bson.A{"Go"},
		"experience":      "Engines.",
		"motivation":      "Robots.",
		"team_preference": "individual",
	}
}

func TestApplicantsValidator_ValidApplicant(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if _, err := db.Collection("applicants").InsertOne(ctx, validApplicant()); err != nil {
		t.Errorf("Insert valid applicant failed: %v", err)
	}
}

func TestApplicantsValidator_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(bson.M)
	}{
		{"missing email", func(d bson.M) { delete(d, "email") }},
		{"blank full name", func(d bson.M) { d["full_name"] = "   " }},
		{"unknown track", func(d bson.M) { d["track_selection"] = "expert" }},
		{"too many team members", func(d bson.M) {
			d["team_members"] = bson.A{"a@x.io", "b@x.io", "c@x.io", "d@x.io", "e@x.io"}
		}},
		{"skills not an array", func(d bson.M) { d["skills"] = "Go" }},
	}

	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validApplicant()
			tt.mutate(doc)
			if _, err := db.Collection("applicants").InsertOne(ctx, doc); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
