package model

import "time"

// Exam identifies one examination sitting.  Exam management (scheduling,
// subjects, grading) lives in the surrounding system; the allocation
// engine only needs the exam's identity and its registered roster.
//
// Fields:
//  ID        – primary key identifier.
//  Title     – human readable exam title.
//  CreatedAt – creation timestamp.
type Exam struct {
	ID        uint64    // exams.id
	Title     string    // exams.title
	CreatedAt time.Time // exams.created_at
}

// Student is one candidate sitting an exam.  ClassID and DepartmentID
// feed the cohort classifier that derives the separation key.
//
// Fields:
//  ID           – primary key identifier.
//  RegNo        – registration number printed on the seating plan.
//  FullName     – student display name.
//  ClassID      – class level the student belongs to.
//  DepartmentID – department / subject group the student belongs to.
type Student struct {
	ID           uint64 // students.id
	RegNo        string // students.reg_no
	FullName     string // students.full_name
	ClassID      uint64 // students.class_id
	DepartmentID uint64 // students.department_id
}
