package powerschool

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func recordDocument(academicRecord string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<StudentRecord xmlns:ao="urn:com:alleyoop:student-record:v0.1.0">
  <Student>
    <Person>
      <Name>
        <FirstName>Johnny</FirstName>
        <LastName>Appleseed</LastName>
      </Name>
      <Gender>
        <GenderCode>Male</GenderCode>
      </Gender>
    </Person>
    <AcademicRecord>
%s
    </AcademicRecord>
  </Student>
</StudentRecord>`, academicRecord)
}

const gpaElement = `<GPA><GradePointAverage>2.5</GradePointAverage></GPA>`

func courseElement(title, assignments string) string {
	return fmt.Sprintf(`<Course>
  <CourseTitle>%s</CourseTitle>
  <UserDefinedExtensions>
    <ao:CourseExtensions>
      <ao:CourseTeacher>Smith, Jane</ao:CourseTeacher>
      <ao:CourseGrade>
        <ao:CurrentGradeLetter>B</ao:CurrentGradeLetter>
        <ao:CurrentGradeNumeric>85.3</ao:CurrentGradeNumeric>
      </ao:CourseGrade>
      <ao:Assignments>
%s
      </ao:Assignments>
    </ao:CourseExtensions>
  </UserDefinedExtensions>
</Course>`, title, assignments)
}

func assignmentElement(name, category, dueDate, grade string) string {
	return fmt.Sprintf(`<ao:Assignment>
  <ao:Name>%s</ao:Name>
  <ao:Category>%s</ao:Category>
  <ao:DueDate>%s</ao:DueDate>
  <ao:Grade>%s</ao:Grade>
</ao:Assignment>`, name, category, dueDate, grade)
}

func TestParseRoundTrip(t *testing.T) {
	doc := recordDocument(gpaElement + courseElement(
		"Biology",
		assignmentElement("Cell Lab", "Labs", "9/12/2023", "18.5/20"),
	))

	student, err := ParseStudentRecord(doc)
	require.NoError(t, err)

	expected := &Student{
		FirstName: "Johnny",
		LastName:  "Appleseed",
		Gender:    "Male",
		GPA:       "2.5",
		Courses: []*Course{
			{
				Name:        "Biology",
				Teacher:     "Smith, Jane",
				LetterGrade: "B",
				NumberGrade: "85.3",
				Assignments: []Assignment{
					{
						Name:     "Cell Lab",
						Category: "Labs",
						DueDate:  "9/12/2023",
						Score:    18.5,
						OutOf:    20,
					},
				},
				Categories: []string{"Labs"},
			},
		},
	}
	require.Empty(t, cmp.Diff(expected, student))
}

func TestParseDropsPlaceholderAssignments(t *testing.T) {
	doc := recordDocument(gpaElement + courseElement(
		"Biology",
		assignmentElement("Ungraded Quiz", "Quizzes", "10/2/2023", "--/20")+
			assignmentElement("Essay", "Writing", "10/5/2023", "40/50"),
	))

	student, err := ParseStudentRecord(doc)
	require.NoError(t, err)

	course := student.Courses[0]
	require.Len(t, course.Assignments, 1)
	require.Equal(t, "Essay", course.Assignments[0].Name)
	// a category seen only on placeholder assignments never enters
	// the category set
	require.Equal(t, []string{"Writing"}, course.Categories)
}

func TestParsePlaceholderKeepsSharedCategory(t *testing.T) {
	doc := recordDocument(gpaElement + courseElement(
		"Biology",
		assignmentElement("Ungraded Quiz", "Quizzes", "10/2/2023", "--/20")+
			assignmentElement("Pop Quiz", "Quizzes", "10/9/2023", "8/10"),
	))

	student, err := ParseStudentRecord(doc)
	require.NoError(t, err)
	require.Equal(t, []string{"Quizzes"}, student.Courses[0].Categories)
}

func TestParseSortsDueDatesLexicographically(t *testing.T) {
	doc := recordDocument(gpaElement + courseElement(
		"Biology",
		assignmentElement("First", "Homework", "9/1/2023", "10/10")+
			assignmentElement("Second", "Homework", "10/15/2023", "10/10")+
			assignmentElement("Third", "Homework", "2/3/2024", "10/10"),
	))

	student, err := ParseStudentRecord(doc)
	require.NoError(t, err)

	// raw-text ordering, "10/15/2023" sorts before "2/3/2024" which
	// sorts before "9/1/2023"
	var dates []string
	for _, a := range student.Courses[0].Assignments {
		dates = append(dates, a.DueDate)
	}
	require.Equal(t, []string{"10/15/2023", "2/3/2024", "9/1/2023"}, dates)
}

func TestParseMissingGPA(t *testing.T) {
	doc := recordDocument(courseElement("Biology", ""))

	student, err := ParseStudentRecord(doc)
	require.Nil(t, student)

	var recordErr *MalformedRecordError
	require.ErrorAs(t, err, &recordErr)
	require.Equal(t, "Student/AcademicRecord/GPA", recordErr.Path)
}

func TestParseMissingGradePointAverage(t *testing.T) {
	doc := recordDocument(`<GPA></GPA>` + courseElement("Biology", ""))

	student, err := ParseStudentRecord(doc)
	require.Nil(t, student)

	var recordErr *MalformedRecordError
	require.ErrorAs(t, err, &recordErr)
	require.Equal(t, "Student/AcademicRecord/GPA/GradePointAverage", recordErr.Path)
}

func TestParseMissingCourseExtensions(t *testing.T) {
	doc := recordDocument(gpaElement + `<Course><CourseTitle>Art</CourseTitle></Course>`)

	student, err := ParseStudentRecord(doc)
	require.Nil(t, student)

	var recordErr *MalformedRecordError
	require.ErrorAs(t, err, &recordErr)
	require.Contains(t, recordErr.Path, "CourseExtensions")
}

func TestParseBadNumericScore(t *testing.T) {
	doc := recordDocument(gpaElement + courseElement(
		"Biology",
		assignmentElement("Essay", "Writing", "10/5/2023", "abc/50"),
	))

	student, err := ParseStudentRecord(doc)
	require.Nil(t, student)

	var recordErr *MalformedRecordError
	require.ErrorAs(t, err, &recordErr)
	require.Contains(t, recordErr.Path, "Grade")
}

func TestParseUnparsableDocument(t *testing.T) {
	student, err := ParseStudentRecord("<<< not xml")
	require.Nil(t, student)

	var recordErr *MalformedRecordError
	require.ErrorAs(t, err, &recordErr)
	require.Equal(t, "document", recordErr.Path)
}

func TestGetStudentParsesDownload(t *testing.T) {
	ctx := context.Background()

	doc := recordDocument(gpaElement + courseElement(
		"Biology",
		assignmentElement("Cell Lab", "Labs", "9/12/2023", "18.5/20"),
	))
	link := &fakeLink{
		href:   "/guardian/studentdata.xml",
		result: &fakePage{body: doc},
	}
	b, _ := newLoginFixture(true, "<html>home</html>", link)
	session := NewSession(b)

	err := session.Login(ctx, "http://portal.test/", "student123", "Password")
	require.NoError(t, err)

	student, err := session.GetStudent(ctx)
	require.NoError(t, err)
	require.Equal(t, "Johnny", student.FirstName)
	require.Len(t, student.Courses, 1)
	require.Equal(t, "Biology", student.Courses[0].Name)
}
