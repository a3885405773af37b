package routes

import (
	"github.com/gin-gonic/gin"

	config "github.com/pmsss/scholarship-portal-go/config"
	controllers "github.com/pmsss/scholarship-portal-go/controllers"
	middleware "github.com/pmsss/scholarship-portal-go/middleware"
	models "github.com/pmsss/scholarship-portal-go/models"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	protect := middleware.Protect(cfg)
	studentOnly := middleware.RequireRoles(models.RoleStudentExternal)
	sagOnly := middleware.RequireRoles(models.RoleSAGExternal)
	financeOnly := middleware.RequireRoles(models.RoleFinanceExternal)
	bureauOnly := middleware.RequireRoles(models.RoleSAGExternal, models.RoleFinanceExternal)

	auth := r.Group("/api/auth")
	{
		// public
		auth.POST("/register/student", controllers.RegisterStudent(cfg))
		auth.POST("/register/sag", controllers.RegisterSAG(cfg))
		auth.POST("/register/finance", controllers.RegisterFinance(cfg))
		auth.POST("/login/student", controllers.Login(cfg, models.RoleStudent))
		auth.POST("/login/sag", controllers.Login(cfg, models.RoleSAG))
		auth.POST("/login/finance", controllers.Login(cfg, models.RoleFinance))
		auth.POST("/forgotpassword", controllers.ForgotPassword(cfg))
		auth.PUT("/resetpassword/:resettoken", controllers.ResetPassword(cfg))

		// protected
		auth.GET("/logout", protect, controllers.Logout(cfg))
		auth.GET("/me", protect, controllers.Me(cfg))
		auth.PUT("/updatedetails", protect, controllers.UpdateDetails(cfg))
		auth.PUT("/updatepassword", protect, controllers.UpdatePassword(cfg))
	}

	students := r.Group("/api/students")
	students.Use(protect, studentOnly)
	{
		students.GET("/profile", controllers.GetStudentProfile(cfg))
		students.PUT("/profile", controllers.UpdateStudentProfile(cfg))
		students.POST("/apply", controllers.SubmitApplication(cfg))
		students.GET("/scholarship-status", controllers.ScholarshipStatus(cfg))
	}

	documents := r.Group("/api/documents")
	documents.Use(protect)
	{
		documents.GET("", studentOnly, controllers.ListStudentDocuments(cfg))
		documents.POST("/upload", studentOnly, controllers.UploadDocument(cfg))
		documents.DELETE("/:id", studentOnly, controllers.DeleteDocument(cfg))

		documents.GET("/all", bureauOnly, controllers.ListAllDocuments(cfg))
		documents.PUT("/:id/status", sagOnly, controllers.UpdateDocumentStatus(cfg))
	}

	payments := r.Group("/api/payments")
	payments.Use(protect)
	{
		payments.GET("/status", studentOnly, controllers.PaymentStatus(cfg))
		payments.POST("/process/:id", financeOnly, controllers.ProcessDocumentPayment(cfg))
		payments.GET("/all", financeOnly, controllers.ListProcessedPayments(cfg))
	}

	sag := r.Group("/api/sag")
	sag.Use(protect, sagOnly)
	{
		sag.GET("/profile", controllers.GetSAGProfile(cfg))
		sag.PUT("/profile", controllers.UpdateSAGProfile(cfg))
		sag.GET("/applications", controllers.ListApplications(cfg))
		sag.PUT("/applications/:id/review", controllers.ReviewApplication(cfg))
		sag.POST("/verification", controllers.UploadVerificationDocuments(cfg))
		sag.GET("/verification", controllers.ListVerificationDocuments(cfg))
		sag.GET("/statistics", controllers.SAGStatistics(cfg))
	}

	finance := r.Group("/api/finance")
	finance.Use(protect, financeOnly)
	{
		finance.GET("/profile", controllers.GetFinanceProfile(cfg))
		finance.PUT("/profile", controllers.UpdateFinanceProfile(cfg))
		finance.GET("/applications/approved", controllers.ListApprovedApplications(cfg))
		finance.POST("/payments/:studentId", controllers.ProcessScholarshipPayment(cfg))
		finance.GET("/payments", controllers.PaymentHistory(cfg))
		finance.GET("/payments/report", controllers.PaymentReport(cfg))
		finance.PUT("/payments/:id/status", controllers.UpdatePaymentStatus(cfg))
		finance.POST("/documents", controllers.UploadPaymentDocuments(cfg))
		finance.GET("/documents", controllers.ListPaymentDocuments(cfg))
		finance.GET("/statistics", controllers.FinanceStatistics(cfg))
	}
}
