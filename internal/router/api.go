package router

import (
	"net/http"

	"github.com/deppfellow/coursegen/internal/handler"
	"github.com/labstack/echo/v4"
)

func registerAPIRoutes(api *echo.Group, h *handler.Handlers) {
	generation := h.Generation
	api.POST("/prompt", handler.Handle(generation.Handler, generation.Prompt, http.StatusOK, &handler.GenerateRequest{}))
	api.POST("/generate", handler.Handle(generation.Handler, generation.Generate, http.StatusOK, &handler.GenerateRequest{}))
	api.POST("/chat", handler.Handle(generation.Handler, generation.Chat, http.StatusOK, &handler.PromptRequest{}))
	api.POST("/project-suggestions", handler.Handle(generation.Handler, generation.ProjectSuggestions, http.StatusOK, &handler.PromptRequest{}))

	media := h.Media
	api.POST("/image", handler.Handle(media.Handler, media.Image, http.StatusOK, &handler.PromptRequest{}))
	api.POST("/yt", handler.Handle(media.Handler, media.Video, http.StatusOK, &handler.PromptRequest{}))
	api.POST("/transcript", handler.Handle(media.Handler, media.Transcript, http.StatusOK, &handler.PromptRequest{}))

	notification := h.Notification
	api.POST("/sendmail", handler.Handle(notification.Handler, notification.SendMail, http.StatusOK, &handler.SendMailRequest{}))
	api.POST("/sendcertificate", handler.Handle(notification.Handler, notification.SendCertificate, http.StatusOK, &handler.SendCertificateRequest{}))

	course := h.Course
	api.POST("/course", handler.Handle(course.Handler, course.Create, http.StatusOK, &handler.CreateCourseRequest{}))
	api.POST("/update", handler.Handle(course.Handler, course.Update, http.StatusOK, &handler.UpdateCourseRequest{}))
	api.POST("/finish", handler.Handle(course.Handler, course.Finish, http.StatusOK, &handler.FinishCourseRequest{}))
	api.POST("/update-progress", handler.Handle(course.Handler, course.UpdateProgress, http.StatusOK, &handler.UpdateProgressRequest{}))
	api.GET("/courses", handler.Handle(course.Handler, course.ListByUser, http.StatusOK, &handler.ListCoursesRequest{}))
	api.GET("/getallcourses", handler.Handle(course.Handler, course.ListAll, http.StatusOK, &handler.ListAllCoursesRequest{}))

	dashboard := handler.Handle(h.Dashboard.Handler, h.Dashboard.Summary, http.StatusOK, &handler.DashboardRequest{})
	api.GET("/dashboard", dashboard)
	api.POST("/dashboard", dashboard)

	resume := h.Resume
	api.POST("/resume", handler.Handle(resume.Handler, resume.Create, http.StatusCreated, &handler.CreateResumeRequest{}))
	api.POST("/resume/upload", handler.Handle(resume.Handler, resume.Upload, http.StatusOK, &handler.UploadResumeRequest{}))
	api.GET("/resume/:uid", handler.Handle(resume.Handler, resume.Get, http.StatusOK, &handler.GetResumeRequest{}))
}
