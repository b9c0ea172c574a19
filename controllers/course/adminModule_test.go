package controllers

import (
	"testing"

	courseModels "lms/models/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedModules(t *testing.T, db *gorm.DB, courseID uint, orders ...int) []courseModels.Module {
	t.Helper()
	modules := make([]courseModels.Module, len(orders))
	for i, order := range orders {
		modules[i] = courseModels.Module{CourseID: courseID, Title: "Module", Order: order}
		require.NoError(t, db.Create(&modules[i]).Error)
	}
	return modules
}

func moduleOrder(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()
	var module courseModels.Module
	require.NoError(t, db.Unscoped().First(&module, id).Error)
	return module.Order
}

func TestReorderModulesSwap(t *testing.T) {
	db := setupTestDB(t)

	course := courseModels.Course{Title: "Swap Course", Status: "PUBLISHED"}
	require.NoError(t, db.Create(&course).Error)
	modules := seedModules(t, db, course.ID, 1, 2, 3)

	// Swapping two positions would collide on a naive single-pass update
	err := reorderModules(db, course.ID, []ReorderItem{
		{ModuleID: modules[0].ID, Order: 2},
		{ModuleID: modules[1].ID, Order: 1},
		{ModuleID: modules[2].ID, Order: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, moduleOrder(t, db, modules[0].ID))
	assert.Equal(t, 1, moduleOrder(t, db, modules[1].ID))
	assert.Equal(t, 3, moduleOrder(t, db, modules[2].ID))
}

func TestReorderModulesFullRotation(t *testing.T) {
	db := setupTestDB(t)

	course := courseModels.Course{Title: "Rotate Course", Status: "PUBLISHED"}
	require.NoError(t, db.Create(&course).Error)
	modules := seedModules(t, db, course.ID, 1, 2, 3, 4)

	err := reorderModules(db, course.ID, []ReorderItem{
		{ModuleID: modules[0].ID, Order: 4},
		{ModuleID: modules[1].ID, Order: 1},
		{ModuleID: modules[2].ID, Order: 2},
		{ModuleID: modules[3].ID, Order: 3},
	})
	require.NoError(t, err)

	assert.Equal(t, 4, moduleOrder(t, db, modules[0].ID))
	assert.Equal(t, 1, moduleOrder(t, db, modules[1].ID))
	assert.Equal(t, 2, moduleOrder(t, db, modules[2].ID))
	assert.Equal(t, 3, moduleOrder(t, db, modules[3].ID))
}

func TestReorderEvictsSoftDeletedModule(t *testing.T) {
	db := setupTestDB(t)

	course := courseModels.Course{Title: "Zombie Course", Status: "PUBLISHED"}
	require.NoError(t, db.Create(&course).Error)
	modules := seedModules(t, db, course.ID, 1, 2, 3)

	// Soft delete the module holding slot 3; the row stays in the unique index
	require.NoError(t, db.Delete(&modules[2]).Error)

	err := reorderModules(db, course.ID, []ReorderItem{
		{ModuleID: modules[0].ID, Order: 3},
		{ModuleID: modules[1].ID, Order: 1},
	})
	require.NoError(t, err)

	assert.Equal(t, 3, moduleOrder(t, db, modules[0].ID))
	assert.Equal(t, 1, moduleOrder(t, db, modules[1].ID))

	// The deleted row was pushed to a unique negative slot
	assert.Less(t, moduleOrder(t, db, modules[2].ID), 0)
}

func TestReorderModulesUnknownModule(t *testing.T) {
	db := setupTestDB(t)

	course := courseModels.Course{Title: "Missing Course", Status: "PUBLISHED"}
	require.NoError(t, db.Create(&course).Error)
	modules := seedModules(t, db, course.ID, 1)

	err := reorderModules(db, course.ID, []ReorderItem{
		{ModuleID: modules[0].ID, Order: 2},
		{ModuleID: 9999, Order: 1},
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// The transaction rolled back, nothing moved
	assert.Equal(t, 1, moduleOrder(t, db, modules[0].ID))
}
