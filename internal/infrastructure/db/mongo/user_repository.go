package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/studyforge/learning-api/internal/core/domain"
	"github.com/studyforge/learning-api/internal/core/ports"
)

const collectionUsers = "users"

// UserRepository implements ports.UserRepository on the users collection.
type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDocument struct {
	ID                   primitive.ObjectID `bson:"_id,omitempty"`
	Name                 string             `bson:"name"`
	Email                string             `bson:"email"`
	Password             string             `bson:"password"`
	Role                 string             `bson:"role"`
	Level                int                `bson:"level"`
	XP                   int                `bson:"xp"`
	Badges               []string           `bson:"badges"`
	ResetPasswordToken   string             `bson:"resetPasswordToken,omitempty"`
	ResetPasswordExpires *time.Time         `bson:"resetPasswordExpires,omitempty"`
	AIUsageCount         int                `bson:"aiUsageCount"`
	AIUsageLastReset     time.Time          `bson:"aiUsageLastReset"`
	CreatedAt            time.Time          `bson:"createdAt"`
	UpdatedAt            time.Time          `bson:"updatedAt"`
}

func toDocument(u *domain.User) userDocument {
	badges := u.Badges
	if badges == nil {
		badges = []string{}
	}
	return userDocument{
		Name:                 u.Name,
		Email:                u.Email,
		Password:             u.PasswordHash,
		Role:                 u.Role,
		Level:                u.Level,
		XP:                   u.XP,
		Badges:               badges,
		ResetPasswordToken:   u.ResetTokenHash,
		ResetPasswordExpires: u.ResetTokenExpiresAt,
		AIUsageCount:         u.AIUsageCount,
		AIUsageLastReset:     u.AIUsageLastReset.UTC(),
		CreatedAt:            u.CreatedAt.UTC(),
		UpdatedAt:            u.UpdatedAt.UTC(),
	}
}

func (d *userDocument) toDomain() *domain.User {
	badges := d.Badges
	if badges == nil {
		badges = []string{}
	}
	u := &domain.User{
		ID:               d.ID.Hex(),
		Name:             d.Name,
		Email:            d.Email,
		PasswordHash:     d.Password,
		Role:             d.Role,
		Level:            d.Level,
		XP:               d.XP,
		Badges:           badges,
		ResetTokenHash:   d.ResetPasswordToken,
		AIUsageCount:     d.AIUsageCount,
		AIUsageLastReset: d.AIUsageLastReset.UTC(),
		CreatedAt:        d.CreatedAt.UTC(),
		UpdatedAt:        d.UpdatedAt.UTC(),
	}
	if d.ResetPasswordExpires != nil {
		exp := d.ResetPasswordExpires.UTC()
		u.ResetTokenExpiresAt = &exp
	}
	if u.Role == "" {
		u.Role = domain.RoleUser
	}
	return u
}

// objectID parses id; malformed IDs resolve to no user.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrUserNotFound
	}
	return oid, nil
}

// Create inserts a new user document.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toDocument(user))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("insert user: unexpected id type %T", res.InsertedID)
	}
	created := *user
	created.ID = oid.Hex()
	return &created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash string) (*domain.User, error) {
	if tokenHash == "" {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"resetPasswordToken": tokenHash})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDocument
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

// SetResetToken stores the token digest and expiry in a single update.
func (r *UserRepository) SetResetToken(ctx context.Context, id, tokenHash string, expiresAt, now time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateByID(ctx, oid, bson.M{
		"$set": bson.M{
			"resetPasswordToken":   tokenHash,
			"resetPasswordExpires": expiresAt.UTC(),
			"updatedAt":            now.UTC(),
		},
	})
}

// ClearResetToken unsets both reset fields together.
func (r *UserRepository) ClearResetToken(ctx context.Context, id string, now time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}
	return r.updateByID(ctx, oid, bson.M{
		"$set":   bson.M{"updatedAt": now.UTC()},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	})
}

// RedeemResetToken swaps the password and clears the reset fields, guarded on
// the token still being present and unexpired.
func (r *UserRepository) RedeemResetToken(ctx context.Context, tokenHash, passwordHash string, now time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"resetPasswordToken":   tokenHash,
		"resetPasswordExpires": bson.M{"$gt": now.UTC()},
	}
	update := bson.M{
		"$set":   bson.M{"password": passwordHash, "updatedAt": now.UTC()},
		"$unset": bson.M{"resetPasswordToken": "", "resetPasswordExpires": ""},
	}

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("redeem reset token: %w", err)
	}
	return res.MatchedCount > 0, nil
}

// ResetUsageWindow zeroes the usage counter. The guard on the previous window
// start makes concurrent resets of the same window collapse into one.
func (r *UserRepository) ResetUsageWindow(ctx context.Context, id string, previous, now time.Time) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "aiUsageLastReset": previous.UTC()}
	update := bson.M{"$set": bson.M{
		"aiUsageCount":     0,
		"aiUsageLastReset": now.UTC(),
		"updatedAt":        now.UTC(),
	}}
	if _, err := r.col.UpdateOne(ctx, filter, update); err != nil {
		return fmt.Errorf("reset usage window: %w", err)
	}
	return nil
}

// IncrementUsage atomically increments the counter while it is below limit.
func (r *UserRepository) IncrementUsage(ctx context.Context, id string, limit int, now time.Time) (*domain.User, bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"_id": oid, "aiUsageCount": bson.M{"$lt": limit}}
	update := bson.M{
		"$inc": bson.M{"aiUsageCount": 1},
		"$set": bson.M{"updatedAt": now.UTC()},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	if err := r.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("increment usage: %w", err)
	}
	return doc.toDomain(), true, nil
}

// UpdateProgress sets level and xp when given and merges badges as a set.
func (r *UserRepository) UpdateProgress(ctx context.Context, id string, change ports.ProgressChange, now time.Time) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := bson.M{"updatedAt": now.UTC()}
	if change.Level != nil {
		set["level"] = *change.Level
	}
	if change.XP != nil {
		set["xp"] = *change.XP
	}
	update := bson.M{"$set": set}
	if len(change.Badges) > 0 {
		update["$addToSet"] = bson.M{"badges": bson.M{"$each": change.Badges}}
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, update, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("update progress: %w", err)
	}
	return doc.toDomain(), nil
}

// List returns a page of users, newest first, and the total count.
func (r *UserRepository) List(ctx context.Context, filter ports.ListUsersFilter) ([]*domain.User, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(int64(filter.Page-1) * int64(filter.Limit)).
		SetLimit(int64(filter.Limit))

	cur, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	defer cur.Close(ctx)

	users := make([]*domain.User, 0, filter.Limit)
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) updateByID(ctx context.Context, oid primitive.ObjectID, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index and the reset token lookup index.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "resetPasswordToken", Value: 1}}, Options: options.Index().SetSparse(true)},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

var _ ports.UserRepository = (*UserRepository)(nil)
