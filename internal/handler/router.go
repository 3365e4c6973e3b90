package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/osegonte/daad-study-search-sub000/internal/middleware"
	"github.com/osegonte/daad-study-search-sub000/internal/models"
	"github.com/osegonte/daad-study-search-sub000/internal/service"
)

// Handlers bundles everything the router mounts.
type Handlers struct {
	Auth         *AuthHandler
	Programmes   *ProgrammeHandler
	Watchlist    *WatchlistHandler
	Universities *UniversityHandler
	SubjectAreas *SubjectAreaHandler
	News         *NewsHandler
	Inquiries    *InquiryHandler
	MatchReports *MatchReportHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts all API routes under the given prefix. Public reads
// carry an optional token so premium entitlement follows the caller; writes
// and personal data sit behind JWT, the CMS behind the admin role.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService, audit middleware.AuditRecorder) {
	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	api := r.Group(prefix)

	// Public surface. The optional token lets a logged-in caller keep
	// premium facets on the same URLs anonymous visitors share.
	public := api.Group("")
	public.Use(middleware.OptionalJWT(auth))
	{
		public.GET("/programmes", h.Programmes.Search)
		public.GET("/programmes/:id", h.Programmes.Get)
		public.GET("/universities", h.Universities.List)
		public.GET("/universities/:id", h.Universities.Get)
		public.GET("/subject-areas", h.SubjectAreas.List)
		public.GET("/subject-areas/:id", h.SubjectAreas.Get)
		public.GET("/news", h.News.ListPublished)
		public.GET("/news/:id", h.News.Get)
		public.POST("/inquiries", h.Inquiries.Submit)
		public.GET("/me/entitlement", h.Programmes.Entitlement)
	}

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	// The provider authenticates with an HMAC signature, not a JWT.
	api.POST("/payments/webhook", h.MatchReports.Webhook)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.POST("/auth/change-password", h.Auth.ChangePassword)
		authed.GET("/me", h.Auth.Me)

		authed.GET("/watchlist", h.Watchlist.List)
		authed.GET("/watchlist/status", h.Watchlist.Status)
		authed.POST("/watchlist/:programmeID/toggle", h.Watchlist.Toggle)

		authed.POST("/match-reports", h.MatchReports.Submit)
		authed.GET("/match-reports", h.MatchReports.ListMine)
		authed.GET("/match-reports/:id", h.MatchReports.Get)
		authed.GET("/match-reports/:id/download-url", h.MatchReports.DownloadURL)
	}

	// The signed token is the credential here. Kept off /match-reports so
	// the static segment does not collide with the :id wildcard.
	api.GET("/downloads/match-report-summary", h.MatchReports.Download)

	admin := api.Group("/admin")
	admin.Use(middleware.JWT(auth), middleware.RequireRoles(models.RoleAdmin))
	if audit != nil {
		admin.Use(middleware.Audit(audit, models.AuditActionCatalogueWrite, "admin"))
	}
	{
		admin.POST("/programmes", h.Programmes.Create)
		admin.PUT("/programmes/:id", h.Programmes.Update)
		admin.DELETE("/programmes/:id", h.Programmes.Delete)

		admin.POST("/universities", h.Universities.Create)
		admin.PUT("/universities/:id", h.Universities.Update)
		admin.DELETE("/universities/:id", h.Universities.Delete)

		admin.POST("/subject-areas", h.SubjectAreas.Create)
		admin.PUT("/subject-areas/:id", h.SubjectAreas.Update)
		admin.DELETE("/subject-areas/:id", h.SubjectAreas.Delete)

		admin.GET("/news", h.News.AdminList)
		admin.GET("/news/:id", h.News.AdminGet)
		admin.POST("/news", h.News.Create)
		admin.PUT("/news/:id", h.News.Update)
		admin.DELETE("/news/:id", h.News.Delete)

		admin.GET("/inquiries", h.Inquiries.List)
		admin.GET("/inquiries/:id", h.Inquiries.Get)
		admin.DELETE("/inquiries/:id", h.Inquiries.Delete)

		admin.GET("/match-reports", h.MatchReports.AdminList)
		admin.PATCH("/match-reports/:id/status", h.MatchReports.UpdateStatus)

		admin.GET("/metrics", h.Metrics.Snapshot)
	}
}
