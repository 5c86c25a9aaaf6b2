package mongo

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/palaup/jobboard/internal/core/domain"
	"github.com/palaup/jobboard/internal/core/ports"
)

const collectionJobs = "jobs"

type JobRepository struct {
	col *mongo.Collection
}

func NewJobRepository(db *mongo.Database) *JobRepository {
	return &JobRepository{col: db.Collection(collectionJobs)}
}

// Create inserts a new job document and returns it with its generated id.
func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.InsertOne(ctx, job)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	job.ID = idString(res.InsertedID)
	return job, nil
}

func (r *JobRepository) FindByID(ctx context.Context, id string) (*domain.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

// FindOwned retrieves a job only when it belongs to companyID.
func (r *JobRepository) FindOwned(ctx context.Context, id, companyID string) (*domain.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid, "company_id": companyID})
}

func (r *JobRepository) findOne(ctx context.Context, filter bson.M) (*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var j domain.Job
	if err := r.col.FindOne(ctx, filter).Decode(&j); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("find job: %w", err)
	}
	return &j, nil
}

func (r *JobRepository) FindByIDs(ctx context.Context, ids []string) ([]*domain.Job, error) {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	if len(oids) == 0 {
		return []*domain.Job{}, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": oids}}, options.Find().SetProjection(bson.M{"applications": 0}))
}

// List returns one page of jobs plus the total number of matches.
func (r *JobRepository) List(ctx context.Context, f ports.ListJobsFilter) ([]*domain.Job, int64, error) {
	filter := jobFilter(f)

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	total, err := r.col.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count jobs: %w", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "featured", Value: -1}, {Key: "created_at", Value: -1}}).
		SetSkip(int64(f.Page-1) * int64(f.Limit)).
		SetLimit(int64(f.Limit))
	if f.CompanyID == "" {
		opts.SetProjection(bson.M{"applications": 0})
	}

	jobs, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *JobRepository) Featured(ctx context.Context, limit int) ([]*domain.Job, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"applications": 0})
	return r.find(ctx, bson.M{"featured": true, "is_active": true}, opts)
}

// Related returns other active jobs of the same company or type.
func (r *JobRepository) Related(ctx context.Context, job *domain.Job, limit int) ([]*domain.Job, error) {
	filter := bson.M{
		"is_active": true,
		"$or": bson.A{
			bson.M{"company_id": job.CompanyID},
			bson.M{"type": job.Type},
		},
	}
	if oid, err := primitive.ObjectIDFromHex(job.ID); err == nil {
		filter["_id"] = bson.M{"$ne": oid}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetProjection(bson.M{"applications": 0})
	return r.find(ctx, filter, opts)
}

func (r *JobRepository) find(ctx context.Context, filter interface{}, opts *options.FindOptions) ([]*domain.Job, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	cur, err := r.col.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find jobs: %w", err)
	}
	defer cur.Close(ctx)

	jobs := []*domain.Job{}
	if err := cur.All(ctx, &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	return jobs, nil
}

func (r *JobRepository) Update(ctx context.Context, id, companyID string, u domain.JobUpdate) (*domain.Job, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	set := jobSet(u)
	set["updated_at"] = time.Now().UTC()

	var j domain.Job
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "company_id": companyID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&j)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrJobNotFound
		}
		return nil, fmt.Errorf("update job: %w", err)
	}
	return &j, nil
}

func (r *JobRepository) Delete(ctx context.Context, id, companyID string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid, "company_id": companyID})
	if err != nil {
		return fmt.Errorf("delete job: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrJobNotFound
	}
	return nil
}

// AddApplication pushes app only if the employee has not applied yet. The
// check and the write happen in a single update.
func (r *JobRepository) AddApplication(ctx context.Context, jobID string, app domain.Application) error {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "applications.employee_id": bson.M{"$ne": app.EmployeeID}},
		bson.M{
			"$push": bson.M{"applications": app},
			"$inc":  bson.M{"applications_count": 1},
			"$set":  bson.M{"updated_at": time.Now().UTC()},
		},
	)
	if err != nil {
		return fmt.Errorf("add application: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.col.CountDocuments(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("add application: %w", err)
	}
	if n == 0 {
		return domain.ErrJobNotFound
	}
	return domain.ErrAlreadyApplied
}

func (r *JobRepository) RemoveApplication(ctx context.Context, jobID, applicationID string) error {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx,
		bson.M{"_id": oid, "applications._id": applicationID},
		bson.M{
			"$pull": bson.M{"applications": bson.M{"_id": applicationID}},
			"$inc":  bson.M{"applications_count": -1},
		},
	)
	if err != nil {
		return fmt.Errorf("remove application: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrApplicationNotFound
	}
	return nil
}

func (r *JobRepository) UpdateApplicationStatus(ctx context.Context, jobID, companyID, applicationID string, status domain.ApplicationStatus) (*domain.Application, error) {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var j domain.Job
	err = r.col.FindOneAndUpdate(ctx,
		bson.M{"_id": oid, "company_id": companyID, "applications._id": applicationID},
		bson.M{"$set": bson.M{
			"applications.$.status":      status,
			"applications.$.last_update": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&j)
	if errors.Is(err, mongo.ErrNoDocuments) {
		if _, ferr := r.FindOwned(ctx, jobID, companyID); ferr != nil {
			return nil, ferr
		}
		return nil, domain.ErrApplicationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}

	for i := range j.Applications {
		if j.Applications[i].ID == applicationID {
			return &j.Applications[i], nil
		}
	}
	return nil, domain.ErrApplicationNotFound
}

func (r *JobRepository) IncrementViews(ctx context.Context, jobID string) error {
	oid, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return domain.ErrJobNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}})
	return err
}

type statsFacets struct {
	Totals []struct {
		Active       int64 `bson:"active"`
		Featured     int64 `bson:"featured"`
		Applications int64 `bson:"applications"`
	} `bson:"totals"`
	TopCompanies []domain.CompanyJobCount `bson:"top_companies"`
}

// Stats aggregates active jobs in one pass. Company names come from the
// companies collection, falling back to the name stored on the job.
func (r *JobRepository) Stats(ctx context.Context, topCompanies int) (*domain.JobStats, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"is_active": true}}},
		{{Key: "$facet", Value: bson.M{
			"totals": bson.A{
				bson.M{"$group": bson.M{
					"_id":          nil,
					"active":       bson.M{"$sum": 1},
					"featured":     bson.M{"$sum": bson.M{"$cond": bson.A{"$featured", 1, 0}}},
					"applications": bson.M{"$sum": "$applications_count"},
				}},
			},
			"top_companies": bson.A{
				bson.M{"$group": bson.M{
					"_id":       "$company_id",
					"name":      bson.M{"$first": "$company_name"},
					"job_count": bson.M{"$sum": 1},
				}},
				bson.M{"$sort": bson.D{{Key: "job_count", Value: -1}, {Key: "_id", Value: 1}}},
				bson.M{"$limit": topCompanies},
				bson.M{"$lookup": bson.M{
					"from": collectionCompanies,
					"let": bson.M{"cid": bson.M{"$convert": bson.M{
						"input": "$_id", "to": "objectId", "onError": nil, "onNull": nil,
					}}},
					"pipeline": bson.A{
						bson.M{"$match": bson.M{"$expr": bson.M{"$eq": bson.A{"$_id", "$$cid"}}}},
						bson.M{"$project": bson.M{"name": 1}},
					},
					"as": "company",
				}},
				bson.M{"$project": bson.M{
					"job_count": 1,
					"name":      bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$company.name", 0}}, "$name"}},
				}},
				bson.M{"$sort": bson.D{{Key: "job_count", Value: -1}, {Key: "_id", Value: 1}}},
			},
		}}},
	}

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("job stats: %w", err)
	}
	defer cur.Close(ctx)

	var facets []statsFacets
	if err := cur.All(ctx, &facets); err != nil {
		return nil, fmt.Errorf("decode job stats: %w", err)
	}

	stats := &domain.JobStats{TopCompanies: []domain.CompanyJobCount{}}
	if len(facets) == 0 {
		return stats, nil
	}
	if t := facets[0].Totals; len(t) > 0 {
		stats.ActiveJobs = t[0].Active
		stats.FeaturedJobs = t[0].Featured
		stats.TotalApplications = t[0].Applications
	}
	if facets[0].TopCompanies != nil {
		stats.TopCompanies = facets[0].TopCompanies
	}
	return stats, nil
}

// EnsureIndexes creates the listing and search indexes on the jobs collection.
func (r *JobRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "title", Value: "text"}, {Key: "description", Value: "text"}, {Key: "tags", Value: "text"}}},
		{Keys: bson.D{{Key: "company_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "featured", Value: -1}, {Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func jobFilter(f ports.ListJobsFilter) bson.M {
	filter := bson.M{}
	if f.CompanyID != "" {
		filter["company_id"] = f.CompanyID
	}
	switch f.Status {
	case ports.JobStatusActive:
		filter["is_active"] = true
	case ports.JobStatusInactive:
		filter["is_active"] = false
	}
	if f.Search != "" {
		filter["$text"] = bson.M{"$search": f.Search}
	}
	if f.Location != "" {
		filter["location"] = primitive.Regex{Pattern: regexp.QuoteMeta(f.Location), Options: "i"}
	}
	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Experience != "" {
		filter["experience_level"] = f.Experience
	}
	if f.Remote {
		filter["remote"] = true
	}
	if f.Featured {
		filter["featured"] = true
	}
	return filter
}

func jobSet(u domain.JobUpdate) bson.M {
	set := bson.M{}
	setIf(set, "title", u.Title)
	setIf(set, "location", u.Location)
	setIf(set, "salary", u.Salary)
	setIf(set, "description", u.Description)
	if u.Type != nil {
		set["type"] = *u.Type
	}
	if u.ExperienceLevel != nil {
		set["experience_level"] = *u.ExperienceLevel
	}
	for key, v := range map[string]*[]string{
		"requirements":     u.Requirements,
		"responsibilities": u.Responsibilities,
		"benefits":         u.Benefits,
		"tags":             u.Tags,
	} {
		if v != nil {
			set[key] = *v
		}
	}
	for key, v := range map[string]*bool{
		"remote":    u.Remote,
		"hybrid":    u.Hybrid,
		"onsite":    u.Onsite,
		"is_active": u.IsActive,
	} {
		if v != nil {
			set[key] = *v
		}
	}
	return set
}

var _ ports.JobRepository = (*JobRepository)(nil)
