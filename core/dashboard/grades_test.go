package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/masomo-dashboard/core"
	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/tests"
)

func TestGradesView(t *testing.T) {
	fake, deps, _ := newTestDeps(t)
	ctx := fake.Ctx(testutil.TeacherID)
	v := NewGradesView(deps)

	snap, err := v.Load(ctx, school.GradeFilter{ClassID: testutil.Class6A}, core.ParseOrderings("-score"))
	require.NoError(t, err)
	require.Len(t, snap.Data.Grades, 2)
	assert.Equal(t, "g-1", snap.Data.Grades[0].ID)
	assert.Equal(t, 62.5, snap.Data.Average)
	assert.Len(t, snap.Data.Courses, 1)
	assert.Len(t, snap.Data.Classes, 2)

	t.Run("update", func(t *testing.T) {
		full := float64(20)
		snap, err := v.UpdateGrade(ctx, "g-2", school.GradeUpdate{Score: &full})
		require.NoError(t, err)
		assert.Equal(t, 87.5, snap.Data.Average)
		require.Len(t, snap.Data.Averages, 1)
		assert.Equal(t, 87.5, snap.Data.Averages[0].Average)
	})

	t.Run("record", func(t *testing.T) {
		snap, err := v.RecordGrade(ctx, school.NewGrade{
			StudentID: testutil.Student1, CourseID: testutil.CourseMath, ClassID: testutil.Class6A,
			Score: 14, MaxScore: 20, Term: "T2", Date: "2024-03-01",
		})
		require.NoError(t, err)
		assert.Len(t, snap.Data.Grades, 3)
		assert.Equal(t, 3, v.Table().Len())
	})

	t.Run("score above max", func(t *testing.T) {
		_, err := v.RecordGrade(ctx, school.NewGrade{
			StudentID: testutil.Student1, CourseID: testutil.CourseMath,
			Score: 24, MaxScore: 20, Term: "T2", Date: "2024-03-01",
		})
		require.Error(t, err)
		fields, ok := core.TranslateErrors(err, core.NewTranslator("en"))
		require.True(t, ok)
		assert.Contains(t, fields, "score")
	})
}
