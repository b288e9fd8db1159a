package handlers

import (
	"errors"
	"net/http"

	"github.com/datashield-dev/datashield/db"
	"github.com/datashield-dev/datashield/internal/models"
	"github.com/datashield-dev/datashield/internal/policy"
	"github.com/datashield-dev/datashield/internal/sar"
	"github.com/datashield-dev/datashield/internal/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CreateTaskRequest struct {
	Title string `json:"title" binding:"required"`
}

type UpdateTaskRequest struct {
	Title string `json:"title" binding:"required"`
	Done  bool   `json:"done"`
}

func CreateTask(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body CreateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ? AND owner_id = ?", ctx.Param("project_id"), userID).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	task := models.Task{
		ProjectID: project.ID,
		Title:     body.Title,
	}

	if err := db.DB.Create(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create task"})
		return
	}

	ctx.JSON(http.StatusCreated, sar.TaskView{
		ID:        task.ID,
		ProjectID: task.ProjectID,
		Title:     task.Title,
		Done:      "false",
	})
}

// ListProjectTasks returns the project's tasks with each field revealed
// through its guarded value. Anyone authenticated may call it; what they
// get back is decided per field by the task category's rules, with the
// requester's membership in the project looked up and passed as an
// explicit fact.
func ListProjectTasks(ctx *gin.Context) {
	reqCtx, err := utils.RequestContext(ctx, policy.PurposeTaskView)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ?", ctx.Param("project_id")).First(&project).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Project not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		}
		return
	}

	var tasks []models.Task

	if err := db.DB.Where("project_id = ?", project.ID).Find(&tasks).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve tasks"})
		return
	}

	var membershipCount int64

	if err := db.DB.Model(&models.ProjectMembership{}).
		Where("project_id = ? AND user_id = ?", project.ID, reqCtx.UserID).
		Count(&membershipCount).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve membership"})
		return
	}

	taskPolicy := policy.TaskPolicy{
		ProjectID:      project.ID,
		ProjectOwnerID: project.OwnerID,
		Member:         membershipCount > 0,
		Rules:          ruleSet.RulesFor(policy.CategoryTask),
	}

	response := make([]sar.TaskView, 0, len(tasks))

	for _, task := range tasks {
		response = append(response, sar.ProjectTask(task, taskPolicy, reqCtx))
	}

	ctx.JSON(http.StatusOK, response)
}

// UpdateTask gates writes with the same evaluator as reads, under the
// task_edit purpose.
func UpdateTask(ctx *gin.Context) {
	reqCtx, err := utils.RequestContext(ctx, policy.PurposeTaskEdit)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var body UpdateTaskRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var task models.Task

	if err := db.DB.Where("id = ? AND project_id = ?", ctx.Param("task_id"), ctx.Param("project_id")).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve task"})
		}
		return
	}

	var project models.Project

	if err := db.DB.Where("id = ?", task.ProjectID).First(&project).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve project"})
		return
	}

	taskPolicy := policy.TaskPolicy{
		ProjectID:      project.ID,
		ProjectOwnerID: project.OwnerID,
		Rules:          ruleSet.RulesFor(policy.CategoryTask),
	}

	if !taskPolicy.Check(reqCtx) {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to edit this task"})
		return
	}

	task.Title = body.Title
	task.Done = body.Done

	if err := db.DB.Save(&task).Error; err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update task"})
		return
	}

	ctx.JSON(http.StatusOK, sar.ProjectTask(task, taskPolicy, reqCtx))
}
