package api

import (
	"github.com/hamim5264/devengine/auth"
	"github.com/hamim5264/devengine/catalog"
	"github.com/hamim5264/devengine/models"
)

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	projectHandler   projectHandler
	tagHandler       tagHandler
	appLabHandler    appLabHandler
	paymentHandler   paymentHandler
	accountHandler   accountHandler
	reviewHandler    reviewHandler
	contactHandler   contactHandler
	siteHandler      siteHandler
	dashboardHandler dashboardHandler
	uploadHandler    uploadHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"title"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// ProjectCollection is the catalog listing
type ProjectCollection struct {
	Projects []models.Project `json:"projects"`
	Total    int              `json:"total"`
}

// ProjectWithTags represents a project with its tags resolved to names
type ProjectWithTags struct {
	Project models.Project `json:"project"`
	Tags    []models.Tag   `json:"tags"`
}

// HomeResponse holds the featured sections of the landing page
type HomeResponse struct {
	Sections []catalog.HomeSection `json:"sections"`
}

// ProjectRequest is the admin add/edit project form
type ProjectRequest struct {
	Title        string    `json:"title" validate:"required"`
	Subtitle     string    `json:"subtitle"`
	Details      string    `json:"details"`
	Installation string    `json:"installation"`
	Tools        commaList `json:"tools"`
	Price        string    `json:"price" validate:"required"`
	Discount     string    `json:"discount"`
	Category     string    `json:"category" validate:"required,category"`
	Tags         []string  `json:"tags"`
	IsPublic     bool      `json:"isPublic"`
}

// PublishResponse reports the visibility after a toggle
type PublishResponse struct {
	Slug     string `json:"slug"`
	IsPublic bool   `json:"isPublic"`
}

type TagRequest struct {
	Name string `json:"name" validate:"required"`
}

type TagCollection struct {
	Tags []models.Tag `json:"tags"`
}

// AppLabRequest is the admin add-app form. Usages, warnings and images may be
// sent as newline separated text.
type AppLabRequest struct {
	Name        string   `json:"name" validate:"required"`
	Subtitle    string   `json:"subtitle"`
	Version     string   `json:"version"`
	ApkURL      string   `json:"apkUrl" validate:"required,url"`
	Description string   `json:"description"`
	Usages      lineList `json:"usages"`
	Warnings    lineList `json:"warnings"`
	Images      lineList `json:"images"`
	IsPublic    bool     `json:"isPublic"`
}

type AppLabCollection struct {
	Apps  []models.AppLabEntry `json:"apps"`
	Total int                  `json:"total"`
}

// InitiatePaymentRequest opens a gateway session for a project
type InitiatePaymentRequest struct {
	Name        string      `json:"name" validate:"required"`
	Email       string      `json:"email" validate:"required,email"`
	Amount      amountInput `json:"amount" validate:"required"`
	ProjectSlug string      `json:"projectSlug" validate:"required"`
}

type InitiatePaymentResponse struct {
	URL string `json:"url"`
}

type SignUpRequest struct {
	FullName    string `json:"fullName" validate:"required"`
	Mobile      string `json:"mobile" validate:"required,bdmobile"`
	Email       string `json:"email" validate:"required,email"`
	Address     string `json:"address" validate:"required"`
	Password    string `json:"password" validate:"required,min=6"`
	AcceptTerms bool   `json:"acceptTerms" validate:"eq=true"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type PasswordResetConfirmRequest struct {
	Code            string `json:"code" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// SessionResponse is returned after sign-up and sign-in
type SessionResponse struct {
	Token         string        `json:"token"`
	ExpiresAt     string        `json:"expiresAt"`
	Identity      auth.Identity `json:"identity"`
	DashboardPath string        `json:"dashboardPath"`
}

type ProfileRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Mobile   string `json:"mobile" validate:"omitempty,bdmobile"`
	Address  string `json:"address"`
}

type PurchaseCollection struct {
	Purchases []models.Purchase `json:"purchases"`
}

type ReviewRequest struct {
	ReviewText string `json:"reviewText" validate:"required"`
	Rating     int    `json:"rating" validate:"required,min=1,max=5"`
}

type ReviewCollection struct {
	Reviews []models.Review `json:"reviews"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required"`
}

type URLResponse struct {
	URL string `json:"url"`
}

// DashboardResponse is the admin overview
type DashboardResponse struct {
	Totals       DashboardTotals      `json:"totals"`
	RecentDrafts []models.Project     `json:"recentDrafts"`
	Users        []models.UserProfile `json:"users"`
}

type DashboardTotals struct {
	Projects   int64 `json:"projects"`
	Tags       int64 `json:"tags"`
	Categories int64 `json:"categories"`
	Users      int64 `json:"users"`
	Apps       int64 `json:"apps"`
	Purchases  int64 `json:"purchases"`
}

type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// SiteSession is the shared page chrome for the current caller
type SiteSession struct {
	SignedIn      bool      `json:"signedIn"`
	DisplayName   string    `json:"displayName,omitempty"`
	Role          string    `json:"role,omitempty"`
	DashboardPath string    `json:"dashboardPath,omitempty"`
	Nav           []NavLink `json:"nav"`
	AdminNav      []NavLink `json:"adminNav,omitempty"`
	Footer        []NavLink `json:"footer"`
}

type PageResponse struct {
	Slug     string `json:"slug"`
	Markdown string `json:"markdown"`
}

type HealthResponse struct {
	Status string `json:"status"`
	Uptime string `json:"uptime"`
}
