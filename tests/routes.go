package testutil

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/masomo-dashboard/core/school"
	"github.com/trezcool/masomo-dashboard/services/api"
)

func keep[T any](items []T, pred func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if pred(item) {
			out = append(out, item)
		}
	}
	return out
}

func find[T any](items []T, id func(T) string, want string) int {
	for i, item := range items {
		if id(item) == want {
			return i
		}
	}
	return -1
}

// match reports whether the query param is unset or equals value.
func match(c echo.Context, param, value string) bool {
	q := c.QueryParam(param)
	return q == "" || q == value
}

func limit[T any](c echo.Context, items []T) []T {
	if n, err := strconv.Atoi(c.QueryParam("limit")); err == nil && n >= 0 && n < len(items) {
		return items[:n]
	}
	return items
}

func notFound(what string) error {
	return echo.NewHTTPError(http.StatusNotFound, what+" not found")
}

func badRequest(err error) error {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error())
}

func (f *FakeAPI) routes(g *echo.Group) {
	g.POST("/auth/login", f.login)
	g.POST("/auth/register", f.register)
	g.GET("/auth/verify", f.verify)
	g.POST("/auth/logout", f.logout)

	g.GET("/users", f.listUsers)
	g.GET("/users/:id", f.getUser)
	g.POST("/users", f.createUser)
	g.PUT("/users/:id", f.updateUser)
	g.DELETE("/users/:id", f.deleteUser)

	g.GET("/classes", f.listClasses)
	g.GET("/classes/:id", f.getClass)
	g.POST("/classes", f.createClass)
	g.PUT("/classes/:id", f.updateClass)
	g.DELETE("/classes/:id", f.deleteClass)
	g.POST("/classes/:id/students", f.addStudent)
	g.DELETE("/classes/:id/students/:student_id", f.removeStudent)

	g.GET("/courses", f.listCourses)
	g.POST("/courses", f.createCourse)
	g.DELETE("/courses/:id", f.deleteCourse)
	g.GET("/schedules", f.listSchedules)
	g.POST("/schedules", f.createSchedule)
	g.DELETE("/schedules/:id", f.deleteSchedule)

	g.GET("/grades", f.listGrades)
	g.POST("/grades", f.createGrade)
	g.PUT("/grades/:id", f.updateGrade)
	g.DELETE("/grades/:id", f.deleteGrade)

	g.GET("/attendances", f.listAttendances)
	g.GET("/attendances/stats", f.attendanceStats)
	g.POST("/attendances/bulk", f.bulkAttendances)
	g.PUT("/attendances/:id", f.updateAttendance)

	g.GET("/messages", f.listMessages)
	g.POST("/messages", f.sendMessage)
	g.PUT("/messages/:id/read", f.markRead)
	g.DELETE("/messages/:id", f.deleteMessage)

	g.GET("/payments", f.listPayments)
	g.POST("/payments", f.createPayment)
	g.PUT("/payments/:id", f.updatePayment)
	g.DELETE("/payments/:id", f.deletePayment)

	g.GET("/relationships", f.listRelationships)
	g.POST("/relationships", f.createRelationship)
	g.DELETE("/relationships/:id", f.deleteRelationship)

	g.GET("/settings", f.getSettings)
	g.PUT("/settings", f.saveSettings)

	g.GET("/reports/:kind", f.report)

	g.GET("/system/status", f.systemStatus)
	g.GET("/system/activity", f.systemActivity)
	g.GET("/system/logs", f.systemLogs)
}

// auth

func (f *FakeAPI) login(c echo.Context) error {
	var creds apisvc.Credentials
	if err := c.Bind(&creds); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Users, func(u school.User) string { return u.Email }, strings.ToLower(creds.Username))
	if i < 0 || creds.Password != Password || !f.Users[i].IsActive {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}
	return c.JSON(http.StatusOK, apisvc.AuthResponse{Token: f.issueToken(f.Users[i].ID), User: f.Users[i]})
}

func (f *FakeAPI) register(c echo.Context) error {
	var nu school.NewUser
	if err := c.Bind(&nu); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	usr, err := f.addUser(nu)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, apisvc.AuthResponse{Token: f.issueToken(usr.ID), User: usr})
}

func (f *FakeAPI) verify(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	usr, ok := f.user(c.Get("userID").(string))
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "user no longer exists")
	}
	return c.JSON(http.StatusOK, echo.Map{"user": usr})
}

func (f *FakeAPI) logout(c echo.Context) error {
	token := strings.TrimPrefix(c.Request().Header.Get("Authorization"), "Bearer ")
	f.mu.Lock()
	delete(f.tokens, token)
	f.mu.Unlock()
	return c.NoContent(http.StatusNoContent)
}

// users

func (f *FakeAPI) addUser(nu school.NewUser) (school.User, error) {
	if find(f.Users, func(u school.User) string { return u.Email }, strings.ToLower(nu.Email)) >= 0 {
		return school.User{}, echo.NewHTTPError(http.StatusConflict, "email already used")
	}
	usr := school.User{
		ID:        f.newID("u"),
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Email:     strings.ToLower(nu.Email),
		Role:      nu.Role,
		IsActive:  true,
	}
	if nu.Phone != "" {
		usr.Phone = null.StringFrom(nu.Phone)
	}
	f.Users = append(f.Users, usr)
	return usr, nil
}

func (f *FakeAPI) listUsers(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	search := strings.ToLower(c.QueryParam("search"))
	users := keep(f.Users, func(u school.User) bool {
		return match(c, "role", string(u.Role)) &&
			(search == "" || strings.Contains(strings.ToLower(u.Name()+" "+u.Email), search))
	})
	return c.JSON(http.StatusOK, limit(c, users))
}

func (f *FakeAPI) getUser(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	usr, ok := f.user(c.Param("id"))
	if !ok {
		return notFound("user")
	}
	return c.JSON(http.StatusOK, usr)
}

func (f *FakeAPI) createUser(c echo.Context) error {
	var nu school.NewUser
	if err := c.Bind(&nu); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	usr, err := f.addUser(nu)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, usr)
}

func (f *FakeAPI) updateUser(c echo.Context) error {
	var uu school.UpdateUser
	if err := c.Bind(&uu); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Users, func(u school.User) string { return u.ID }, c.Param("id"))
	if i < 0 {
		return notFound("user")
	}
	usr := &f.Users[i]
	if uu.FirstName != "" {
		usr.FirstName = uu.FirstName
	}
	if uu.LastName != "" {
		usr.LastName = uu.LastName
	}
	if uu.Email != "" {
		usr.Email = uu.Email
	}
	if uu.Role != "" {
		usr.Role = uu.Role
	}
	if uu.Phone != "" {
		usr.Phone = null.StringFrom(uu.Phone)
	}
	if uu.IsActive != nil {
		usr.IsActive = *uu.IsActive
	}
	return c.JSON(http.StatusOK, *usr)
}

func (f *FakeAPI) deleteUser(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Users, func(u school.User) string { return u.ID }, c.Param("id"))
	if i < 0 {
		return notFound("user")
	}
	f.Users = append(f.Users[:i], f.Users[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

// classes

func classID(cl school.Class) string { return cl.ID }

func (f *FakeAPI) listClasses(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, keep(f.Classes, func(school.Class) bool { return true }))
}

func (f *FakeAPI) getClass(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Classes, classID, c.Param("id"))
	if i < 0 {
		return notFound("class")
	}
	return c.JSON(http.StatusOK, f.Classes[i])
}

func applyClass(cl *school.Class, nc school.NewClass) {
	cl.Name = nc.Name
	cl.Level = null.NewString(nc.Level, nc.Level != "")
	cl.Year = null.NewString(nc.Year, nc.Year != "")
	cl.TeacherID = null.NewString(nc.TeacherID, nc.TeacherID != "")
}

func (f *FakeAPI) createClass(c echo.Context) error {
	var nc school.NewClass
	if err := c.Bind(&nc); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cl := school.Class{ID: f.newID("c"), Students: []string{}}
	applyClass(&cl, nc)
	f.Classes = append(f.Classes, cl)
	return c.JSON(http.StatusCreated, cl)
}

func (f *FakeAPI) updateClass(c echo.Context) error {
	var nc school.NewClass
	if err := c.Bind(&nc); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Classes, classID, c.Param("id"))
	if i < 0 {
		return notFound("class")
	}
	applyClass(&f.Classes[i], nc)
	return c.JSON(http.StatusOK, f.Classes[i])
}

func (f *FakeAPI) deleteClass(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Classes, classID, c.Param("id"))
	if i < 0 {
		return notFound("class")
	}
	f.Classes = append(f.Classes[:i], f.Classes[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

func (f *FakeAPI) addStudent(c echo.Context) error {
	var rc school.RosterChange
	if err := c.Bind(&rc); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Classes, classID, c.Param("id"))
	if i < 0 {
		return notFound("class")
	}
	if usr, ok := f.user(rc.StudentID); !ok || usr.Role != school.RoleStudent {
		return notFound("student")
	}
	if !f.Classes[i].HasStudent(rc.StudentID) {
		f.Classes[i].Students = append(f.Classes[i].Students, rc.StudentID)
	}
	return c.JSON(http.StatusOK, f.Classes[i])
}

func (f *FakeAPI) removeStudent(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Classes, classID, c.Param("id"))
	if i < 0 {
		return notFound("class")
	}
	studentID := c.Param("student_id")
	f.Classes[i].Students = keep(f.Classes[i].Students, func(id string) bool { return id != studentID })
	return c.NoContent(http.StatusNoContent)
}

// courses & schedules

func (f *FakeAPI) listCourses(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, keep(f.Courses, func(k school.Course) bool {
		return match(c, "class_id", k.ClassID.String) && match(c, "teacher_id", k.TeacherID.String)
	}))
}

func (f *FakeAPI) createCourse(c echo.Context) error {
	var nc school.NewCourse
	if err := c.Bind(&nc); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	k := school.Course{
		ID:          f.newID("k"),
		Name:        nc.Name,
		Code:        nc.Code,
		ClassID:     null.NewString(nc.ClassID, nc.ClassID != ""),
		TeacherID:   null.NewString(nc.TeacherID, nc.TeacherID != ""),
		Description: null.NewString(nc.Description, nc.Description != ""),
	}
	f.Courses = append(f.Courses, k)
	return c.JSON(http.StatusCreated, k)
}

func (f *FakeAPI) deleteCourse(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Courses, func(k school.Course) string { return k.ID }, c.Param("id"))
	if i < 0 {
		return notFound("course")
	}
	f.Courses = append(f.Courses[:i], f.Courses[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

func (f *FakeAPI) listSchedules(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, keep(f.Schedules, func(s school.Schedule) bool {
		return match(c, "class_id", s.ClassID.String) && match(c, "teacher_id", s.TeacherID.String) &&
			match(c, "day_of_week", strconv.Itoa(s.DayOfWeek))
	}))
}

func (f *FakeAPI) createSchedule(c echo.Context) error {
	var ns school.NewSchedule
	if err := c.Bind(&ns); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	s := school.Schedule{
		ID:        f.newID("sc"),
		CourseID:  ns.CourseID,
		ClassID:   null.NewString(ns.ClassID, ns.ClassID != ""),
		TeacherID: null.NewString(ns.TeacherID, ns.TeacherID != ""),
		DayOfWeek: ns.DayOfWeek,
		StartTime: ns.StartTime,
		EndTime:   ns.EndTime,
		Room:      null.NewString(ns.Room, ns.Room != ""),
	}
	f.Schedules = append(f.Schedules, s)
	return c.JSON(http.StatusCreated, s)
}

func (f *FakeAPI) deleteSchedule(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Schedules, func(s school.Schedule) string { return s.ID }, c.Param("id"))
	if i < 0 {
		return notFound("schedule")
	}
	f.Schedules = append(f.Schedules[:i], f.Schedules[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

// grades

func gradeID(g school.Grade) string { return g.ID }

func (f *FakeAPI) listGrades(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	grades := keep(f.Grades, func(g school.Grade) bool {
		return match(c, "student_id", g.StudentID) && match(c, "course_id", g.CourseID) &&
			match(c, "class_id", g.ClassID.String) && match(c, "term", g.Term)
	})
	return c.JSON(http.StatusOK, limit(c, grades))
}

func (f *FakeAPI) createGrade(c echo.Context) error {
	var ng school.NewGrade
	if err := c.Bind(&ng); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	g := school.Grade{
		ID:        f.newID("g"),
		StudentID: ng.StudentID,
		CourseID:  ng.CourseID,
		ClassID:   null.NewString(ng.ClassID, ng.ClassID != ""),
		Score:     ng.Score,
		MaxScore:  ng.MaxScore,
		Term:      ng.Term,
		Date:      ng.Date,
		Comment:   null.NewString(ng.Comment, ng.Comment != ""),
	}
	f.Grades = append(f.Grades, g)
	return c.JSON(http.StatusCreated, g)
}

func (f *FakeAPI) updateGrade(c echo.Context) error {
	var gu school.GradeUpdate
	if err := c.Bind(&gu); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Grades, gradeID, c.Param("id"))
	if i < 0 {
		return notFound("grade")
	}
	if gu.Score != nil {
		f.Grades[i].Score = *gu.Score
	}
	if gu.MaxScore != nil {
		f.Grades[i].MaxScore = *gu.MaxScore
	}
	if gu.Comment != "" {
		f.Grades[i].Comment = null.StringFrom(gu.Comment)
	}
	return c.JSON(http.StatusOK, f.Grades[i])
}

func (f *FakeAPI) deleteGrade(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Grades, gradeID, c.Param("id"))
	if i < 0 {
		return notFound("grade")
	}
	f.Grades = append(f.Grades[:i], f.Grades[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

// attendances

func inRange(c echo.Context, date string) bool {
	from, to := c.QueryParam("from"), c.QueryParam("to")
	return (from == "" || date >= from) && (to == "" || date <= to)
}

func (f *FakeAPI) listAttendances(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, keep(f.Attendances, func(a school.Attendance) bool {
		return match(c, "date", a.Date) && match(c, "class_id", a.ClassID.String) &&
			match(c, "student_id", a.StudentID) && match(c, "status", string(a.Status)) && inRange(c, a.Date)
	}))
}

func (f *FakeAPI) attendanceStats(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, f.Stats)
}

func (f *FakeAPI) bulkAttendances(c echo.Context) error {
	var nb school.NewAttendanceBulk
	if err := c.Bind(&nb); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	created := make([]school.Attendance, 0, len(nb.Records))
	for _, mark := range nb.Records {
		a := school.Attendance{
			ID:        f.newID("a"),
			StudentID: mark.StudentID,
			ClassID:   null.StringFrom(nb.ClassID),
			Date:      nb.Date,
			Status:    mark.Status,
			Notes:     null.NewString(mark.Notes, mark.Notes != ""),
		}
		if usr, ok := f.user(mark.StudentID); ok {
			a.StudentName = null.StringFrom(usr.Name())
		}
		f.Attendances = append(f.Attendances, a)
		created = append(created, a)
	}
	return c.JSON(http.StatusCreated, created)
}

func (f *FakeAPI) updateAttendance(c echo.Context) error {
	var au school.AttendanceUpdate
	if err := c.Bind(&au); err != nil {
		return badRequest(err)
	}
	if !au.Status.Valid() {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid status %q", au.Status))
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Attendances, func(a school.Attendance) string { return a.ID }, c.Param("id"))
	if i < 0 {
		return notFound("attendance")
	}
	f.Attendances[i].Status = au.Status
	if au.Notes != "" {
		f.Attendances[i].Notes = null.StringFrom(au.Notes)
	}
	return c.JSON(http.StatusOK, f.Attendances[i])
}

// messages

func (f *FakeAPI) listMessages(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	userID, box := c.QueryParam("user_id"), c.QueryParam("box")
	msgs := keep(f.Messages, func(m school.Message) bool {
		switch {
		case userID == "":
			return true
		case box == "inbox":
			return m.ReceiverID == userID
		case box == "sent":
			return m.SenderID == userID
		}
		return m.ReceiverID == userID || m.SenderID == userID
	})
	return c.JSON(http.StatusOK, limit(c, msgs))
}

func (f *FakeAPI) sendMessage(c echo.Context) error {
	var nm school.NewMessage
	if err := c.Bind(&nm); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.user(nm.ReceiverID); !ok {
		return notFound("receiver")
	}
	m := school.Message{
		ID:         f.newID("m"),
		SenderID:   c.Get("userID").(string),
		ReceiverID: nm.ReceiverID,
		Subject:    nm.Subject,
		Body:       nm.Body,
		SentAt:     time.Now().UTC(),
	}
	f.Messages = append(f.Messages, m)
	return c.JSON(http.StatusCreated, m)
}

func (f *FakeAPI) markRead(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Messages, func(m school.Message) string { return m.ID }, c.Param("id"))
	if i < 0 {
		return notFound("message")
	}
	f.Messages[i].IsRead = true
	return c.NoContent(http.StatusNoContent)
}

func (f *FakeAPI) deleteMessage(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Messages, func(m school.Message) string { return m.ID }, c.Param("id"))
	if i < 0 {
		return notFound("message")
	}
	f.Messages = append(f.Messages[:i], f.Messages[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

// payments

func paymentID(p school.Payment) string { return p.ID }

func (f *FakeAPI) listPayments(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, keep(f.Payments, func(p school.Payment) bool {
		return match(c, "student_id", p.StudentID) && match(c, "status", string(p.Status)) &&
			match(c, "type", string(p.Type)) && inRange(c, p.DueDate)
	}))
}

func (f *FakeAPI) createPayment(c echo.Context) error {
	var np school.NewPayment
	if err := c.Bind(&np); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	p := school.Payment{
		ID:          f.newID("p"),
		StudentID:   np.StudentID,
		Amount:      np.Amount,
		Type:        np.Type,
		Status:      np.Status,
		DueDate:     np.DueDate,
		PaidDate:    null.NewString(np.PaidDate, np.PaidDate != ""),
		Method:      null.NewString(np.Method, np.Method != ""),
		Description: null.NewString(np.Description, np.Description != ""),
	}
	if usr, ok := f.user(np.StudentID); ok {
		p.StudentName = null.StringFrom(usr.Name())
	}
	f.Payments = append(f.Payments, p)
	return c.JSON(http.StatusCreated, p)
}

func (f *FakeAPI) updatePayment(c echo.Context) error {
	var pu school.PaymentUpdate
	if err := c.Bind(&pu); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Payments, paymentID, c.Param("id"))
	if i < 0 {
		return notFound("payment")
	}
	p := &f.Payments[i]
	if pu.Status != "" {
		p.Status = pu.Status
	}
	if pu.Amount != nil {
		p.Amount = *pu.Amount
	}
	if pu.PaidDate != "" {
		p.PaidDate = null.StringFrom(pu.PaidDate)
	}
	if pu.Method != "" {
		p.Method = null.StringFrom(pu.Method)
	}
	return c.JSON(http.StatusOK, *p)
}

func (f *FakeAPI) deletePayment(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Payments, paymentID, c.Param("id"))
	if i < 0 {
		return notFound("payment")
	}
	f.Payments = append(f.Payments[:i], f.Payments[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

// relationships

func (f *FakeAPI) listRelationships(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, keep(f.Relationships, func(r school.Relationship) bool {
		return match(c, "parent_id", r.ParentID) && match(c, "student_id", r.StudentID)
	}))
}

func (f *FakeAPI) createRelationship(c echo.Context) error {
	var nr school.NewRelationship
	if err := c.Bind(&nr); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	parent, ok := f.user(nr.ParentID)
	if !ok || parent.Role != school.RoleParent {
		return notFound("parent")
	}
	student, ok := f.user(nr.StudentID)
	if !ok || student.Role != school.RoleStudent {
		return notFound("student")
	}
	for _, r := range f.Relationships {
		if r.ParentID == nr.ParentID && r.StudentID == nr.StudentID {
			return echo.NewHTTPError(http.StatusConflict, "relationship already exists")
		}
	}
	r := school.Relationship{
		ID:           f.newID("r"),
		ParentID:     parent.ID,
		ParentName:   null.StringFrom(parent.Name()),
		StudentID:    student.ID,
		StudentName:  null.StringFrom(student.Name()),
		Relationship: nr.Relationship,
	}
	f.Relationships = append(f.Relationships, r)
	return c.JSON(http.StatusCreated, r)
}

func (f *FakeAPI) deleteRelationship(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := find(f.Relationships, func(r school.Relationship) string { return r.ID }, c.Param("id"))
	if i < 0 {
		return notFound("relationship")
	}
	f.Relationships = append(f.Relationships[:i], f.Relationships[i+1:]...)
	return c.NoContent(http.StatusNoContent)
}

// settings

func (f *FakeAPI) getSettings(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, f.Settings)
}

func (f *FakeAPI) saveSettings(c echo.Context) error {
	var s school.Settings
	if err := c.Bind(&s); err != nil {
		return badRequest(err)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Settings = s
	return c.JSON(http.StatusOK, f.Settings)
}

// reports

func (f *FakeAPI) report(c echo.Context) error {
	kind := school.ReportKind(c.Param("kind"))
	if !kind.Valid() {
		return notFound("report")
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	r := school.Report{Kind: kind, From: c.QueryParam("from"), To: c.QueryParam("to")}
	switch kind {
	case school.ReportAcademic:
		r.Title = "Academic performance"
		r.Columns = []string{"Student", "Course", "Score", "Max score", "Term"}
		for _, g := range f.Grades {
			if match(c, "class_id", g.ClassID.String) && inRange(c, g.Date) {
				r.Rows = append(r.Rows, []string{g.StudentID, g.CourseID, fmt.Sprint(g.Score), fmt.Sprint(g.MaxScore), g.Term})
			}
		}
	case school.ReportAttendance:
		r.Title = "Attendance"
		r.Columns = []string{"Student", "Date", "Status"}
		for _, a := range f.Attendances {
			if match(c, "class_id", a.ClassID.String) && inRange(c, a.Date) {
				r.Rows = append(r.Rows, []string{a.StudentName.String, a.Date, string(a.Status)})
			}
		}
	case school.ReportFinancial:
		r.Title = "Fees collection"
		r.Columns = []string{"Student", "Type", "Amount", "Status", "Due date"}
		var paid float64
		for _, p := range f.Payments {
			if inRange(c, p.DueDate) {
				r.Rows = append(r.Rows, []string{p.StudentName.String, string(p.Type), fmt.Sprintf("%.2f", p.Amount), string(p.Status), p.DueDate})
				if p.Status == school.PaymentPaid {
					paid += p.Amount
				}
			}
		}
		r.Summary = []school.ReportMetric{{Label: "Collected", Value: fmt.Sprintf("%.2f", paid)}}
	case school.ReportEnrollment:
		r.Title = "Enrollment"
		r.Columns = []string{"Class", "Students"}
		for _, cl := range f.Classes {
			if match(c, "class_id", cl.ID) {
				r.Rows = append(r.Rows, []string{cl.Name, strconv.Itoa(len(cl.Students))})
			}
		}
	}
	r.Summary = append(r.Summary, school.ReportMetric{Label: "Rows", Value: strconv.Itoa(len(r.Rows))})
	return c.JSON(http.StatusOK, r)
}

// system

func (f *FakeAPI) systemStatus(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, f.Status)
}

func (f *FakeAPI) systemActivity(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, limit(c, f.Activity))
}

func (f *FakeAPI) systemLogs(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return c.JSON(http.StatusOK, limit(c, f.Logs))
}
