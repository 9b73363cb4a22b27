package database

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

type Database struct {
	projectRepo    *ProjectRepo
	tagRepo        *TagRepo
	appLabRepo     *AppLabRepo
	userRepo       *UserRepo
	credentialRepo *CredentialRepo
	purchaseRepo   *PurchaseRepo
	reviewRepo     *ReviewRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		projectRepo:    NewProjectRepo(db),
		tagRepo:        NewTagRepo(db),
		appLabRepo:     NewAppLabRepo(db),
		userRepo:       NewUserRepo(db),
		credentialRepo: NewCredentialRepo(db),
		purchaseRepo:   NewPurchaseRepo(db),
		reviewRepo:     NewReviewRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) AppLabRepo() *AppLabRepo {
	return d.appLabRepo
}

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) CredentialRepo() *CredentialRepo {
	return d.credentialRepo
}

func (d Database) PurchaseRepo() *PurchaseRepo {
	return d.purchaseRepo
}

func (d Database) ReviewRepo() *ReviewRepo {
	return d.reviewRepo
}

// Open connects to the primary and registers any read replicas. Reads are
// spread across replicas; writes and RETURNING statements go to the primary.
func Open(dsn string, replicaDSNs []string, gormLogger logger.Interface) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      gormLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if len(replicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(replicaDSNs))
		for _, r := range replicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{DSN: r, PreferSimpleProtocol: true}))
		}
		err := db.Use(dbresolver.Register(dbresolver.Config{
			Replicas:          replicas,
			Policy:            dbresolver.RandomPolicy{},
			TraceResolverMode: true,
		}).SetConnMaxIdleTime(5 * time.Minute).SetMaxOpenConns(20))
		if err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
	}

	var result int
	if err := db.Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}

	return db, nil
}
