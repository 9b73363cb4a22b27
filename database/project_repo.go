package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/hamim5264/devengine/errs"
	"github.com/hamim5264/devengine/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// FindAll returns projects newest first. Drafts are included only when asked for.
func (r *ProjectRepo) FindAll(ctx context.Context, includeDrafts bool) ([]models.Project, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if !includeDrafts {
		q = q.Where("is_public = ?", true)
	}

	var projects []models.Project
	err := q.Find(&projects).Error
	return projects, err
}

// FindBySlug returns the project stored under slug.
func (r *ProjectRepo) FindBySlug(ctx context.Context, slug string) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&project).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NewNotFound("project")
	}
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a new project. An existing row with the same slug is left untouched
// and reported as already existing.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "slug"}}, DoNothing: true}).
		Create(project)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewAlreadyExists("project")
	}
	return nil
}

// Update rewrites the editable fields of a project. The slug, author and
// creation time never change.
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project) error {
	result := r.db.WithContext(ctx).
		Model(&models.Project{}).
		Where("slug = ?", project.Slug).
		Updates(map[string]interface{}{
			"title":        project.Title,
			"subtitle":     project.Subtitle,
			"details":      project.Details,
			"installation": project.Installation,
			"tools":        project.Tools,
			"price":        project.Price,
			"discount":     project.Discount,
			"category":     project.Category,
			"tags":         project.Tags,
			"is_public":    project.IsPublic,
			"updated_at":   gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

// TogglePublic flips is_public in one statement and returns the new value.
func (r *ProjectRepo) TogglePublic(ctx context.Context, slug string) (bool, error) {
	return togglePublic(ctx, r.db, models.Project{}.TableName(), "project", slug)
}

// Delete removes a project by slug.
func (r *ProjectRepo) Delete(ctx context.Context, slug string) error {
	result := r.db.WithContext(ctx).Where("slug = ?", slug).Delete(&models.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewNotFound("project")
	}
	return nil
}

func (r *ProjectRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Count(&n).Error
	return n, err
}

// CountCategories returns the number of distinct categories in use.
func (r *ProjectRepo) CountCategories(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Project{}).Distinct("category").Count(&n).Error
	return n, err
}

// RecentDrafts returns unpublished projects, most recently touched first.
func (r *ProjectRepo) RecentDrafts(ctx context.Context, limit int) ([]models.Project, error) {
	var projects []models.Project
	err := r.db.WithContext(ctx).
		Where("is_public = ?", false).
		Order("COALESCE(updated_at, created_at) DESC").
		Limit(limit).
		Find(&projects).Error
	return projects, err
}

type publishState struct {
	IsPublic bool
}

// togglePublic negates is_public for the row keyed by slug and returns the new value.
// The flip and the read happen in one statement.
func togglePublic(ctx context.Context, db *gorm.DB, table, entity, slug string) (bool, error) {
	var rows []publishState
	err := db.WithContext(ctx).
		Raw(fmt.Sprintf(`UPDATE %q SET is_public = NOT is_public, updated_at = NOW() WHERE slug = ? RETURNING is_public`, table), slug).
		Scan(&rows).Error
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, errs.NewNotFound(entity)
	}
	return rows[0].IsPublic, nil
}
