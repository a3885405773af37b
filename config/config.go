package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	utils "github.com/pmsss/scholarship-portal-go/utils"
	workflow "github.com/pmsss/scholarship-portal-go/workflow"
)

// Config carries the process-wide collaborators: the mongo client, the blob
// backend and the deployment-time policy choices.
type Config struct {
	MongoClient *mongo.Client
	DBName      string

	Files      utils.FileStore
	UploadsDir string

	// DocumentDeletePolicy is workflow.DeletePendingOnly or workflow.DeleteAny.
	DocumentDeletePolicy string
}

// Load builds a Config from the environment. MONGO_URI and JWT_SECRET must
// be set; everything else has a default.
func Load() (*Config, error) {
	if os.Getenv("JWT_SECRET") == "" {
		return nil, fmt.Errorf("JWT_SECRET is not configured")
	}

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		return nil, fmt.Errorf("MONGO_URI is not configured")
	}

	dbName := os.Getenv("MONGO_DB_NAME")
	if dbName == "" {
		dbName = "scholarship"
	}

	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = filepath.Join(".", "uploads")
	}

	deletePolicy := os.Getenv("DOCUMENT_DELETE_POLICY")
	if deletePolicy == "" {
		deletePolicy = workflow.DeletePendingOnly
	}
	if !workflow.ValidDeletePolicy(deletePolicy) {
		return nil, fmt.Errorf("invalid DOCUMENT_DELETE_POLICY: %q", deletePolicy)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("could not connect to mongo: %v", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("could not ping mongo: %v", err)
	}

	cfg := &Config{
		MongoClient:          client,
		DBName:               dbName,
		Files:                utils.NewFileStore(uploadsDir),
		UploadsDir:           uploadsDir,
		DocumentDeletePolicy: deletePolicy,
	}

	if err := cfg.ensureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("could not create indexes: %v", err)
	}

	return cfg, nil
}

func (cfg *Config) Accounts() *mongo.Collection {
	return cfg.MongoClient.Database(cfg.DBName).Collection("accounts")
}

func (cfg *Config) Documents() *mongo.Collection {
	return cfg.MongoClient.Database(cfg.DBName).Collection("documents")
}

func (cfg *Config) Payments() *mongo.Collection {
	return cfg.MongoClient.Database(cfg.DBName).Collection("payments")
}

// ensureIndexes creates the unique constraints the account variants rely on
// plus the payment query indexes. Partial filters scope each uniqueness rule
// to its role.
func (cfg *Config) ensureIndexes(ctx context.Context) error {
	_, err := cfg.Accounts().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "role", Value: 1}, {Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "sag.state", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"role": "sag"}),
		},
		{
			Keys: bson.D{{Key: "student.registration_number", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"role": "student"}),
		},
		{
			Keys: bson.D{{Key: "finance.department_code", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"role": "finance"}),
		},
	})
	if err != nil {
		return err
	}

	_, err = cfg.Payments().Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "student", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "finance", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "payment_period.start_date", Value: 1}, {Key: "payment_period.end_date", Value: 1}}},
	})
	if err != nil {
		return err
	}

	_, err = cfg.Documents().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "student", Value: 1}, {Key: "created_at", Value: -1}},
	})
	return err
}
