package mongo

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
)

func userDoc(id primitive.ObjectID, email string, count int) bson.D {
	now := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "name", Value: "Ada"},
		{Key: "email", Value: email},
		{Key: "password", Value: "$2a$10$hash"},
		{Key: "role", Value: "user"},
		{Key: "level", Value: 2},
		{Key: "xp", Value: 120},
		{Key: "badges", Value: bson.A{"first-steps"}},
		{Key: "aiUsageCount", Value: count},
		{Key: "aiUsageLastReset", Value: now},
		{Key: "createdAt", Value: now},
		{Key: "updatedAt", Value: now},
	}
}

func TestUserRepository_Create(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("success", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Create(context.Background(), domain.NewUser("Ada", "ada@example.com", "hash", time.Now()))
		if err != nil {
			mt.Fatalf("Create: %v", err)
		}
		if _, err := primitive.ObjectIDFromHex(created.ID); err != nil {
			mt.Fatalf("expected ObjectID hex, got %q", created.ID)
		}
	})

	mt.Run("duplicate email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: users index: email_1",
		}))

		_, err := repo.Create(context.Background(), domain.NewUser("Ada", "ada@example.com", "hash", time.Now()))
		if err != domain.ErrUserExists {
			mt.Fatalf("expected ErrUserExists, got %v", err)
		}
	})
}

func TestUserRepository_FindByEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studyforge.users", mtest.FirstBatch, userDoc(id, "ada@example.com", 3)))

		user, err := repo.FindByEmail(context.Background(), "ada@example.com")
		if err != nil {
			mt.Fatalf("FindByEmail: %v", err)
		}
		if user.ID != id.Hex() || user.Email != "ada@example.com" || user.PasswordHash != "$2a$10$hash" {
			mt.Fatalf("unexpected user: %+v", user)
		}
		if user.Level != 2 || user.XP != 120 || len(user.Badges) != 1 || user.AIUsageCount != 3 {
			mt.Fatalf("unexpected progression: %+v", user)
		}
		if user.ResetTokenExpiresAt != nil {
			mt.Fatalf("expected no pending reset")
		}
	})

	mt.Run("not found", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "studyforge.users", mtest.FirstBatch))

		if _, err := repo.FindByEmail(context.Background(), "ghost@example.com"); err != domain.ErrUserNotFound {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_FindByID_MalformedID(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("malformed", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		if _, err := repo.FindByID(context.Background(), "not-an-object-id"); err != domain.ErrUserNotFound {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_IncrementUsage(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id := primitive.NewObjectID()

	mt.Run("below limit", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: userDoc(id, "ada@example.com", 4)}))

		user, ok, err := repo.IncrementUsage(context.Background(), id.Hex(), 5, time.Now())
		if err != nil || !ok {
			mt.Fatalf("expected increment, got ok=%v err=%v", ok, err)
		}
		if user.AIUsageCount != 4 {
			mt.Fatalf("expected updated count 4, got %d", user.AIUsageCount)
		}
	})

	mt.Run("limit reached", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		user, ok, err := repo.IncrementUsage(context.Background(), id.Hex(), 5, time.Now())
		if err != nil || ok || user != nil {
			mt.Fatalf("expected guard miss, got user=%v ok=%v err=%v", user, ok, err)
		}
	})
}

func TestUserRepository_RedeemResetToken(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("redeemed", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		ok, err := repo.RedeemResetToken(context.Background(), "digest", "newhash", time.Now())
		if err != nil || !ok {
			mt.Fatalf("expected redeem, got ok=%v err=%v", ok, err)
		}
	})

	mt.Run("already used", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		ok, err := repo.RedeemResetToken(context.Background(), "digest", "newhash", time.Now())
		if err != nil || ok {
			mt.Fatalf("expected no match, got ok=%v err=%v", ok, err)
		}
	})
}

func TestUserRepository_SetResetToken_UnknownUser(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("unknown", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		now := time.Now()
		err := repo.SetResetToken(context.Background(), primitive.NewObjectID().Hex(), "digest", now.Add(time.Hour), now)
		if err != domain.ErrUserNotFound {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}

func TestUserRepository_UpdateProgress_NotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		level := 3
		_, err := repo.UpdateProgress(context.Background(), primitive.NewObjectID().Hex(), ports.ProgressChange{Level: &level}, time.Now())
		if err != domain.ErrUserNotFound {
			mt.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}
