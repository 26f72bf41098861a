package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/accounthub/user-service/internal/core/domain"
	"github.com/accounthub/user-service/internal/core/ports"
)

const collectionUsers = "users"

// Index names are matched against duplicate-key errors to decide which
// uniqueness invariant the write violated.
const (
	idxActiveEmail = "uniq_active_email"
	idxActivePhone = "uniq_active_phone"
)

// sortFields whitelists the sortable columns; anything else falls back to
// created_at.
var sortFields = map[string]string{
	"created_at": "created_at",
	"updated_at": "updated_at",
	"email":      "email",
	"first_name": "first_name",
	"last_name":  "last_name",
}

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type userDoc struct {
	ID           primitive.ObjectID `bson:"_id,omitempty"`
	Email        string             `bson:"email"`
	PasswordHash string             `bson:"password_hash"`
	FirstName    string             `bson:"first_name"`
	LastName     string             `bson:"last_name"`
	DisplayName  string             `bson:"display_name,omitempty"`
	PhoneNumber  string             `bson:"phone_number,omitempty"`
	DateOfBirth  *time.Time         `bson:"date_of_birth,omitempty"`
	RoleIDs      []string           `bson:"role_ids,omitempty"`
	IsActive     bool               `bson:"is_active"`
	IsDeleted    bool               `bson:"is_deleted"`
	DeletedAt    *time.Time         `bson:"deleted_at,omitempty"`
	CreatedAt    time.Time          `bson:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at"`
}

func toUserDoc(u *domain.User) userDoc {
	return userDoc{
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		DisplayName:  u.DisplayName,
		PhoneNumber:  u.PhoneNumber,
		DateOfBirth:  u.DateOfBirth,
		RoleIDs:      u.RoleIDs,
		IsActive:     u.IsActive,
		IsDeleted:    u.IsDeleted,
		DeletedAt:    u.DeletedAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func (d userDoc) toDomain() *domain.User {
	return &domain.User{
		ID:           d.ID.Hex(),
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		DisplayName:  d.DisplayName,
		PhoneNumber:  d.PhoneNumber,
		DateOfBirth:  d.DateOfBirth,
		RoleIDs:      d.RoleIDs,
		IsActive:     d.IsActive,
		IsDeleted:    d.IsDeleted,
		DeletedAt:    d.DeletedAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
}

// objectID parses an id, treating malformed input as an absent record.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, domain.ErrUserNotFound
	}
	return oid, nil
}

// Create inserts a new user document. Unique-index violations are translated
// into the matching ConflictError: the index is the backstop behind the
// validator layer's check-then-insert window.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, toUserDoc(u))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}

	created := *u
	created.ID = res.InsertedID.(primitive.ObjectID).Hex()
	return &created, nil
}

// duplicateKeyConflict decides which uniqueness invariant a duplicate-key
// error violated by looking for the index name in the server message.
func duplicateKeyConflict(err error) *domain.ConflictError {
	if strings.Contains(err.Error(), idxActivePhone) {
		return domain.NewConflict(domain.CodePhoneTaken, "Phone number already registered")
	}
	return domain.NewConflict(domain.CodeEmailTaken, "Email already registered")
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email, "is_deleted": false})
}

func (r *UserRepository) FindByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"phone_number": phone, "is_deleted": false})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	if err := r.col.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email, "is_deleted": false})
}

func (r *UserRepository) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, bson.M{"phone_number": phone, "is_deleted": false})
}

func (r *UserRepository) ExistsDeletedByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, bson.M{"email": email, "is_deleted": true})
}

func (r *UserRepository) ExistsDeletedByPhone(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, bson.M{"phone_number": phone, "is_deleted": true})
}

func (r *UserRepository) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return n > 0, nil
}

// Update applies a partial patch to a non-deleted user. Pointers to the
// empty string unset display_name/phone_number.
func (r *UserRepository) Update(ctx context.Context, id string, patch ports.UserPatch) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.DisplayName != nil {
		if *patch.DisplayName == "" {
			unset["display_name"] = ""
		} else {
			set["display_name"] = *patch.DisplayName
		}
	}
	if patch.PhoneNumber != nil {
		if *patch.PhoneNumber == "" {
			unset["phone_number"] = ""
		} else {
			set["phone_number"] = *patch.PhoneNumber
		}
	}
	if patch.DateOfBirth != nil {
		set["date_of_birth"] = *patch.DateOfBirth
	}
	if patch.IsActive != nil {
		set["is_active"] = *patch.IsActive
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "is_deleted": false},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}
	return doc.toDomain(), nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(
		ctx,
		bson.M{"_id": oid, "is_deleted": false},
		bson.M{"$set": bson.M{"password_hash": passwordHash, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetRoles(ctx context.Context, id string, roleIDs []string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "is_deleted": false},
		bson.M{"$set": bson.M{"role_ids": roleIDs, "updated_at": time.Now().UTC()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("set roles: %w", err)
	}
	return doc.toDomain(), nil
}

// SoftDelete conditionally flips an active record to deleted. Returns false
// without error when nothing matched (absent or already deleted).
func (r *UserRepository) SoftDelete(ctx context.Context, id string) (bool, error) {
	oid, err := objectID(id)
	if err != nil {
		return false, nil
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now().UTC()
	res, err := r.col.UpdateOne(
		ctx,
		bson.M{"_id": oid, "is_deleted": false},
		bson.M{"$set": bson.M{"is_deleted": true, "deleted_at": now, "updated_at": now}},
	)
	if err != nil {
		return false, fmt.Errorf("soft delete: %w", err)
	}
	return res.ModifiedCount > 0, nil
}

// Restore conditionally flips a deleted record back to active. The filter on
// is_deleted makes a racing restore lose cleanly: the second caller sees
// ErrUserNotFound.
func (r *UserRepository) Restore(ctx context.Context, id string) (*domain.User, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc userDoc
	err = r.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": oid, "is_deleted": true},
		bson.M{
			"$set":   bson.M{"is_deleted": false, "updated_at": time.Now().UTC()},
			"$unset": bson.M{"deleted_at": ""},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		if mongo.IsDuplicateKeyError(err) {
			return nil, duplicateKeyConflict(err)
		}
		return nil, fmt.Errorf("restore user: %w", err)
	}
	return doc.toDomain(), nil
}

// FindAllPaginated runs a filtered, sorted, paged fetch plus a total count.
// Deleted records are always excluded.
func (r *UserRepository) FindAllPaginated(ctx context.Context, filter ports.UserFilter, opts domain.PageOptions) (*ports.UserPage, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := buildFilter(filter)

	total, err := r.col.CountDocuments(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}

	sortField, ok := sortFields[opts.SortBy]
	if !ok {
		sortField = "created_at"
	}
	direction := -1
	if opts.SortOrder == "asc" {
		direction = 1
	}

	cursor, err := r.col.Find(ctx, query, options.Find().
		SetSort(bson.D{{Key: sortField, Value: direction}}).
		SetSkip(opts.Offset()).
		SetLimit(int64(opts.Limit)))
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	items := make([]*domain.User, 0, opts.Limit)
	for cursor.Next(ctx) {
		var doc userDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		items = append(items, doc.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	return &ports.UserPage{Items: items, Meta: domain.NewPageMeta(opts, total)}, nil
}

func buildFilter(f ports.UserFilter) bson.M {
	query := bson.M{"is_deleted": false}

	if f.Query != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Query), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"first_name": re},
			bson.M{"last_name": re},
			bson.M{"email": re},
			bson.M{"display_name": re},
		}
	}
	if f.Email != "" {
		query["email"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Email), Options: "i"}
	}
	if f.Phone != "" {
		query["phone_number"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Phone), Options: "i"}
	}
	if f.IsActive != nil {
		query["is_active"] = *f.IsActive
	}
	return query
}

// EnsureIndexes creates the collection's indexes, including the partial
// unique indexes that enforce active-scope email/phone uniqueness at the
// store level.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "email", Value: 1}},
			Options: options.Index().
				SetName(idxActiveEmail).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "is_deleted", Value: false}}),
		},
		{
			Keys: bson.D{{Key: "phone_number", Value: 1}},
			Options: options.Index().
				SetName(idxActivePhone).
				SetUnique(true).
				SetPartialFilterExpression(bson.D{
					{Key: "is_deleted", Value: false},
					{Key: "phone_number", Value: bson.D{{Key: "$exists", Value: true}}},
				}),
		},
		{Keys: bson.D{{Key: "is_deleted", Value: 1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
