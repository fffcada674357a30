package router

import (
	"context"
	"net/http"
	"time"

	"github.com/cuongbtq/skillbridge/internal/api/domain"
	"github.com/cuongbtq/skillbridge/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// Options are the HTTP-level settings that are not handler dependencies
type Options struct {
	ServiceName    string
	AllowedOrigins []string
	// MaxMultipartMemory bounds in-memory multipart parsing; zero keeps gin's default
	MaxMultipartMemory int64
}

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, opts Options) *gin.Engine {
	r := gin.New()
	if opts.MaxMultipartMemory > 0 {
		r.MaxMultipartMemory = opts.MaxMultipartMemory
	}

	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware(opts.AllowedOrigins))

	r.GET("/health", healthHandler(deps, opts.ServiceName))

	users := handler.NewUserHandler(deps)
	companies := handler.NewCompanyHandler(deps)
	jobs := handler.NewJobHandler(deps)
	applications := handler.NewApplicationHandler(deps)

	authenticated := Authenticate(deps)
	recruiter := RequireRole(domain.RoleRecruiter)
	student := RequireRole(domain.RoleStudent)

	v1 := r.Group("/api/v1")
	{
		user := v1.Group("/user")
		{
			user.POST("/register", users.Register)
			user.POST("/login", users.Login)
			user.GET("/logout", users.Logout)
			user.POST("/profile/update", authenticated, users.UpdateProfile)
			user.GET("/me", authenticated, users.Me)
			user.GET("/activity", authenticated, users.ListActivity)
		}

		company := v1.Group("/company")
		{
			company.POST("/register", authenticated, recruiter, companies.Register)
			company.GET("/get", authenticated, recruiter, companies.List)
			company.GET("/get/:id", authenticated, companies.Get)
			company.PUT("/update/:id", authenticated, recruiter, companies.Update)
		}

		job := v1.Group("/job")
		{
			job.POST("/post", authenticated, recruiter, jobs.Post)
			job.GET("/get", authenticated, jobs.List)
			job.GET("/getadminjobs", authenticated, recruiter, jobs.ListMine)
			job.GET("/get/:id", jobs.Get)
			job.GET("/search", jobs.Search)
		}

		application := v1.Group("/application")
		{
			application.GET("/apply/:id", authenticated, student, applications.Apply)
			application.GET("/get", authenticated, student, applications.List)
		}
	}

	return r
}

func healthHandler(deps *handler.Dependencies, service string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.HealthCheck != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := deps.HealthCheck(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": service,
					"error":   err.Error(),
				})
				return
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": service,
		})
	}
}
