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

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

const (
	collectionEmployees = "employees"
	collectionCompanies = "companies"
)

var withoutSecret = bson.M{"password": 0}

// AccountRepository stores one account variant in its own collection. Ids are
// ObjectIDs generated per collection, so the same hex may exist in both.
type AccountRepository struct {
	kind domain.AccountKind
	col  *mongo.Collection
}

func NewEmployeeRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{kind: domain.KindEmployee, col: db.Collection(collectionEmployees)}
}

func NewCompanyRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{kind: domain.KindCompany, col: db.Collection(collectionCompanies)}
}

func (r *AccountRepository) Kind() domain.AccountKind { return r.kind }

// FindByID treats a malformed id as a miss so the resolver can keep probing.
func (r *AccountRepository) FindByID(ctx context.Context, id string, withSecret bool) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.FindOne()
	if !withSecret {
		opts.SetProjection(withoutSecret)
	}
	return r.findOne(ctx, bson.M{"_id": oid}, opts)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	return r.findOne(ctx, bson.M{"email": email}, options.FindOne())
}

func (r *AccountRepository) findOne(ctx context.Context, filter bson.M, opts *options.FindOneOptions) (*domain.Account, error) {
	res := r.col.FindOne(ctx, filter, opts)
	acct, err := r.decode(res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find %s: %w", r.kind, err)
	}
	return acct, nil
}

func (r *AccountRepository) decode(res *mongo.SingleResult) (*domain.Account, error) {
	if r.kind == domain.KindCompany {
		var c domain.Company
		if err := res.Decode(&c); err != nil {
			return nil, err
		}
		return domain.NewCompanyAccount(&c), nil
	}
	var e domain.Employee
	if err := res.Decode(&e); err != nil {
		return nil, err
	}
	return domain.NewEmployeeAccount(&e), nil
}

func (r *AccountRepository) Create(ctx context.Context, acct *domain.Account) (*domain.Account, error) {
	if acct.Kind != r.kind {
		return nil, fmt.Errorf("create %s: got %s account", r.kind, acct.Kind)
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var doc interface{} = acct.Employee
	if r.kind == domain.KindCompany {
		doc = acct.Company
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("insert %s: %w", r.kind, err)
	}

	id := idString(res.InsertedID)
	if r.kind == domain.KindCompany {
		acct.Company.ID = id
	} else {
		acct.Employee.ID = id
	}
	return acct, nil
}

func (r *AccountRepository) UpdateByID(ctx context.Context, id string, update domain.AccountUpdate) (*domain.Account, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := accountSet(update)
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().
		SetReturnDocument(options.After).
		SetProjection(withoutSecret)
	res := r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts)

	acct, err := r.decode(res)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("update %s: %w", r.kind, err)
	}
	return acct, nil
}

// AddApplication appends to an employee's application list.
func (r *AccountRepository) AddApplication(ctx context.Context, employeeID string, app domain.EmployeeApplication) error {
	return r.updateOne(ctx, employeeID, bson.M{}, bson.M{
		"$push": bson.M{"applications": app},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
}

func (r *AccountRepository) SetApplicationStatus(ctx context.Context, employeeID, jobID string, status domain.ApplicationStatus) error {
	return r.updateOne(ctx, employeeID, bson.M{"applications.job_id": jobID}, bson.M{
		"$set": bson.M{
			"applications.$.status":      status,
			"applications.$.last_update": time.Now().UTC(),
		},
	})
}

func (r *AccountRepository) ToggleSavedJob(ctx context.Context, employeeID, jobID string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(employeeID)
	if err != nil {
		return false, domain.ErrAccountNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pulled, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "saved_jobs": jobID},
		bson.M{"$pull": bson.M{"saved_jobs": jobID}},
	)
	if err != nil {
		return false, fmt.Errorf("unsave job: %w", err)
	}
	if pulled.MatchedCount > 0 {
		return false, nil
	}

	added, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"saved_jobs": jobID}},
	)
	if err != nil {
		return false, fmt.Errorf("save job: %w", err)
	}
	if added.MatchedCount == 0 {
		return false, domain.ErrAccountNotFound
	}
	return true, nil
}

// IncJobCounters adjusts the active and total job counters of a company.
func (r *AccountRepository) IncJobCounters(ctx context.Context, companyID string, active, total int) error {
	return r.updateOne(ctx, companyID, bson.M{}, bson.M{
		"$inc": bson.M{"active_jobs": active, "total_jobs": total},
	})
}

func (r *AccountRepository) updateOne(ctx context.Context, id string, filter, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrAccountNotFound
	}
	filter["_id"] = oid

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.kind, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index of the collection.
func (r *AccountRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

// Ping reports whether the backing database answers.
func (r *AccountRepository) Ping(ctx context.Context) error {
	return r.col.Database().Client().Ping(ctx, nil)
}

// accountSet flattens an update into $set fields. Only non-nil fields appear.
func accountSet(u domain.AccountUpdate) bson.M {
	set := bson.M{}
	if u.Password != nil {
		set["password"] = *u.Password
	}
	if u.IsActive != nil {
		set["is_active"] = *u.IsActive
	}

	if p := u.Employee; p != nil {
		setIf(set, "name", p.Name)
		setIf(set, "phone", p.Phone)
		setIf(set, "location", p.Location)
		setIf(set, "title", p.Title)
		setIf(set, "experience", p.Experience)
		setIf(set, "education", p.Education)
		setIf(set, "bio", p.Bio)
		setIf(set, "cover_image", p.CoverImage)
	}
	if u.Skills != nil {
		set["skills"] = *u.Skills
	}
	if u.Languages != nil {
		set["languages"] = *u.Languages
	}
	setIf(set, "avatar", u.Avatar)

	if p := u.Company; p != nil {
		setIf(set, "name", p.Name)
		setIf(set, "industry", p.Industry)
		setIf(set, "description", p.Description)
		setIf(set, "founded", p.Founded)
		setIf(set, "employees", p.Employees)
		setIf(set, "location", p.Location)
		setIf(set, "website", p.Website)
		setIf(set, "phone", p.Phone)
		setIf(set, "size", p.Size)
		setIf(set, "type", p.Type)
		setIf(set, "cover_image", p.CoverImage)
	}
	if u.Specialties != nil {
		set["specialties"] = *u.Specialties
	}
	if u.Benefits != nil {
		set["benefits"] = *u.Benefits
	}
	setIf(set, "logo", u.Logo)
	return set
}

func setIf(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}

func idString(v interface{}) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

var (
	_ ports.AccountRepository          = (*AccountRepository)(nil)
	_ ports.EmployeeActivityRepository = (*AccountRepository)(nil)
	_ ports.CompanyCounterRepository   = (*AccountRepository)(nil)
)
