package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/medcare/health-portal/internal/core/domain"
)

// roleCollections maps each role kind to its collection.
var roleCollections = map[domain.RoleKind]string{
	domain.RoleDoctor:  "doctors",
	domain.RolePatient: "patients",
	domain.RoleMonitor: "monitors",
}

// RoleRepository implements ports.RoleRepository for one role kind.
type RoleRepository struct {
	kind domain.RoleKind
	col  *mongo.Collection
}

func NewRoleRepository(db *mongo.Database, kind domain.RoleKind) (*RoleRepository, error) {
	name, ok := roleCollections[kind]
	if !ok {
		return nil, domain.ErrUnknownRoleKind
	}
	return &RoleRepository{kind: kind, col: db.Collection(name)}, nil
}

// NewRoleRepositories builds one repository per role kind.
func NewRoleRepositories(db *mongo.Database) []*RoleRepository {
	repos := make([]*RoleRepository, 0, len(domain.RoleKinds))
	for _, kind := range domain.RoleKinds {
		repo, _ := NewRoleRepository(db, kind)
		repos = append(repos, repo)
	}
	return repos
}

type mongoRole struct {
	UserID    string                 `bson:"user_id"`
	Active    bool                   `bson:"active"`
	Status    string                 `bson:"status"`
	Doctor    *domain.DoctorDetails  `bson:"doctor,omitempty"`
	Patient   *domain.PatientDetails `bson:"patient,omitempty"`
	Monitor   *domain.MonitorDetails `bson:"monitor,omitempty"`
	CreatedAt time.Time              `bson:"created_at"`
	UpdatedAt time.Time              `bson:"updated_at"`
}

func (r *RoleRepository) toDomain(m mongoRole) *domain.RoleRecord {
	return &domain.RoleRecord{
		Kind:   r.kind,
		UserID: m.UserID,
		Active: m.Active,
		Status: domain.RoleStatus(m.Status),
		Details: domain.RoleDetails{
			Doctor:  m.Doctor,
			Patient: m.Patient,
			Monitor: m.Monitor,
		},
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func (r *RoleRepository) Kind() domain.RoleKind { return r.kind }

func (r *RoleRepository) Create(ctx context.Context, rec *domain.RoleRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := mongoRole{
		UserID:    rec.UserID,
		Active:    rec.Active,
		Status:    string(rec.Status),
		Doctor:    rec.Details.Doctor,
		Patient:   rec.Details.Patient,
		Monitor:   rec.Details.Monitor,
		CreatedAt: rec.CreatedAt.UTC(),
		UpdatedAt: rec.UpdatedAt.UTC(),
	}
	if _, err := r.col.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrRoleExists
		}
		return storeErr("insert "+string(r.kind), err)
	}
	return nil
}

func (r *RoleRepository) FindByUserID(ctx context.Context, userID string) (*domain.RoleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoRole
	if err := r.col.FindOne(ctx, bson.M{"user_id": userID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, storeErr("find "+string(r.kind), err)
	}
	return r.toDomain(m), nil
}

func (r *RoleRepository) ExistsByUserID(ctx context.Context, userID string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	n, err := r.col.CountDocuments(ctx, bson.M{"user_id": userID}, options.Count().SetLimit(1))
	if err != nil {
		return false, storeErr("count "+string(r.kind), err)
	}
	return n > 0, nil
}

// DeleteByUserID removes and returns the record; ErrRoleNotFound when absent.
func (r *RoleRepository) DeleteByUserID(ctx context.Context, userID string) (*domain.RoleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var m mongoRole
	if err := r.col.FindOneAndDelete(ctx, bson.M{"user_id": userID}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, storeErr("delete "+string(r.kind), err)
	}
	return r.toDomain(m), nil
}

func (r *RoleRepository) UpdateStatus(ctx context.Context, userID string, status domain.RoleStatus, active bool) (*domain.RoleRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"status":     string(status),
		"active":     active,
		"updated_at": time.Now().UTC(),
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var m mongoRole
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"user_id": userID}, update, opts).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, storeErr("update "+string(r.kind), err)
	}
	return r.toDomain(m), nil
}

// EnsureIndexes enforces one record per user within this kind.
func (r *RoleRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}
