package school

import (
	"net/url"
	"strconv"
)

func setQuery(q url.Values, key, value string) {
	if value != "" {
		q.Set(key, value)
	}
}

func setQueryInt(q url.Values, key string, value int) {
	if value > 0 {
		q.Set(key, strconv.Itoa(value))
	}
}

func (f UserFilter) Query() url.Values {
	q := url.Values{}
	setQuery(q, "role", string(f.Role))
	setQuery(q, "search", f.Search)
	setQueryInt(q, "limit", f.Limit)
	return q
}

func (f CourseFilter) Query() url.Values {
	q := url.Values{}
	setQuery(q, "class_id", f.ClassID)
	setQuery(q, "teacher_id", f.TeacherID)
	return q
}

func (f ScheduleFilter) Query() url.Values {
	q := url.Values{}
	setQuery(q, "class_id", f.ClassID)
	setQuery(q, "teacher_id", f.TeacherID)
	if f.DayOfWeek != nil {
		q.Set("day_of_week", strconv.Itoa(*f.DayOfWeek))
	}
	return q
}

func (f GradeFilter) Query() url.Values {
	q := url.Values{}
	setQuery(q, "student_id", f.StudentID)
	setQuery(q, "course_id", f.CourseID)
	setQuery(q, "class_id", f.ClassID)
	setQuery(q, "term", f.Term)
	setQueryInt(q, "limit", f.Limit)
	return q
}

// Query omits Search; text search is applied locally.
func (f AttendanceFilter) Query() url.Values {
	q := url.Values{}
	setQuery(q, "date", f.Date)
	setQuery(q, "class_id", f.ClassID)
	setQuery(q, "student_id", f.StudentID)
	setQuery(q, "status", string(f.Status))
	setQuery(q, "from", f.From)
	setQuery(q, "to", f.To)
	return q
}

// Query omits Search; text search is applied locally.
func (f PaymentFilter) Query() url.Values {
	q := url.Values{}
	setQuery(q, "student_id", f.StudentID)
	setQuery(q, "status", string(f.Status))
	setQuery(q, "type", string(f.Type))
	setQuery(q, "from", f.From)
	setQuery(q, "to", f.To)
	return q
}

func (f RelationshipFilter) Query() url.Values {
	q := url.Values{}
	setQuery(q, "parent_id", f.ParentID)
	setQuery(q, "student_id", f.StudentID)
	return q
}

func (f MessageFilter) Query() url.Values {
	q := url.Values{}
	setQuery(q, "user_id", f.UserID)
	setQuery(q, "box", f.Box)
	setQueryInt(q, "limit", f.Limit)
	return q
}

func (f ReportFilter) Query() url.Values {
	q := url.Values{}
	setQuery(q, "from", f.From)
	setQuery(q, "to", f.To)
	setQuery(q, "class_id", f.ClassID)
	return q
}
