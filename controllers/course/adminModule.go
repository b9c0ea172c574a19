package controllers

import (
	"math/rand"
	"time"

	"lms/database"
	"lms/middleware"
	courseModels "lms/models/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Reordered modules are parked in this range while their final slots are
// prepared; no real order value ever gets here.
const reorderEvacuationBase = 1_000_000

// AdminCreateModule creates a new module in a course
func AdminCreateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedModule").(*struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		Order         int    `json:"order"`
		HasAssessment bool   `json:"has_assessment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Get the next order if not provided
	order := reqData.Order
	if order == 0 {
		var maxOrder int
		database.Database.Db.Model(&courseModels.Module{}).Where("course_id = ?", courseID).Select("COALESCE(MAX(sort_order), 0)").Scan(&maxOrder)
		order = maxOrder + 1
	}

	module := courseModels.Module{
		CourseID:      uint(courseID),
		Title:         reqData.Title,
		Description:   reqData.Description,
		Order:         order,
		HasAssessment: reqData.HasAssessment,
	}

	if err := database.Database.Db.Create(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// AdminUpdateModule updates an existing module
func AdminUpdateModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ?", moduleID, courseID).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	reqData, ok := c.Locals("validatedModuleUpdate").(*struct {
		Title         string `json:"title"`
		Description   string `json:"description"`
		HasAssessment *bool  `json:"has_assessment"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if reqData.Title != "" {
		module.Title = reqData.Title
	}
	if reqData.Description != "" {
		module.Description = reqData.Description
	}
	if reqData.HasAssessment != nil {
		module.HasAssessment = *reqData.HasAssessment
	}

	if err := database.Database.Db.Save(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// AdminDeleteModule soft deletes a module and its lessons
func AdminDeleteModule(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)
	moduleID := c.Locals("moduleID").(int)

	var module courseModels.Module
	if err := database.Database.Db.Where("id = ? AND course_id = ?", moduleID, courseID).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	tx := database.Database.Db.Begin()

	// Soft delete keeps the row in the (course_id, sort_order) unique
	// index; the reorder pass evicts such zombies explicitly.
	if err := tx.Delete(&module).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	if err := tx.Model(&courseModels.Lesson{}).Where("module_id = ?", moduleID).Update("is_deleted", true).Error; err != nil {
		tx.Rollback()
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module lessons!", nil)
	}

	tx.Commit()

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// AdminListModules lists all modules in a course with lesson counts
func AdminListModules(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModels.Module
	if err := database.Database.Db.Where("course_id = ?", courseID).Order("sort_order asc").Find(&modules).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch modules!", nil)
	}

	type ModuleWithCount struct {
		courseModels.Module
		LessonCount int64 `json:"lesson_count"`
	}

	modulesWithCount := make([]ModuleWithCount, len(modules))
	for i, mod := range modules {
		var count int64
		database.Database.Db.Model(&courseModels.Lesson{}).Where("module_id = ? AND is_deleted = ?", mod.ID, false).Count(&count)
		modulesWithCount[i] = ModuleWithCount{
			Module:      mod,
			LessonCount: count,
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules fetched successfully!", fiber.Map{
		"modules": modulesWithCount,
	})
}

// ReorderItem is one entry of a module reorder request
type ReorderItem struct {
	ModuleID uint `json:"module_id"`
	Order    int  `json:"order"`
}

// reorderModules rewrites module order values in three passes inside one
// transaction. A single-pass write can trip the (course_id, sort_order)
// unique index when two modules swap slots, and soft-deleted rows may still
// occupy a target slot, so: evacuate the reordered set to a high range,
// evict anything sitting on a target value (zombies included) to unique
// negative values, then commit the final orders.
func reorderModules(db *gorm.DB, courseID uint, items []ReorderItem) error {
	return db.Transaction(func(tx *gorm.DB) error {
		moduleIDs := make([]uint, len(items))
		targetOrders := make([]int, len(items))
		for i, item := range items {
			moduleIDs[i] = item.ModuleID
			targetOrders[i] = item.Order
		}

		// Pass 1: evacuate the modules being reordered
		for i, item := range items {
			result := tx.Model(&courseModels.Module{}).
				Where("id = ? AND course_id = ?", item.ModuleID, courseID).
				Update("sort_order", reorderEvacuationBase+i)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return gorm.ErrRecordNotFound
			}
		}

		// Pass 2: evict anything occupying a target slot, soft-deleted
		// zombies included
		var obstacles []courseModels.Module
		if err := tx.Unscoped().
			Where("course_id = ? AND sort_order IN ? AND id NOT IN ?", courseID, targetOrders, moduleIDs).
			Find(&obstacles).Error; err != nil {
			return err
		}
		base := time.Now().UnixNano() + int64(rand.Intn(1000))
		for i, obstacle := range obstacles {
			if err := tx.Unscoped().Model(&courseModels.Module{}).
				Where("id = ?", obstacle.ID).
				Update("sort_order", -(base + int64(i))).Error; err != nil {
				return err
			}
		}

		// Pass 3: commit the final orders
		for _, item := range items {
			if err := tx.Model(&courseModels.Module{}).
				Where("id = ? AND course_id = ?", item.ModuleID, courseID).
				Update("sort_order", item.Order).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// AdminReorderModules handles the drag-and-drop reorder request
func AdminReorderModules(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(int)

	var course courseModels.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	reqData, ok := c.Locals("validatedModuleReorder").(*struct {
		Modules []ReorderItem `json:"modules"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	if err := reorderModules(database.Database.Db, uint(courseID), reqData.Modules); err != nil {
		if err == gorm.ErrRecordNotFound {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "One or more modules not found in this course!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to reorder modules!", nil)
	}

	var modules []courseModels.Module
	database.Database.Db.Where("course_id = ?", courseID).Order("sort_order asc").Find(&modules)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Modules reordered successfully!", fiber.Map{
		"modules": modules,
	})
}
