package powerschool

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// Student is the normalized form of the portal's XML export. It is
// built once per parse; nothing mutates it afterwards except the
// per-course InProgress flags set by MarkInProgress.
type Student struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Gender    string `json:"gender"`
	// GPA keeps the portal's formatting, it is not parsed as a number.
	GPA     string    `json:"gpa"`
	Courses []*Course `json:"courses"`
}

type Course struct {
	Name        string `json:"name"`
	Teacher     string `json:"teacher"`
	LetterGrade string `json:"letter_grade"`
	NumberGrade string `json:"number_grade"`
	InProgress  bool   `json:"in_progress"`
	// Assignments are ordered ascending by the raw due-date text.
	// This is a lexicographic sort, not a calendar sort: "10/15/2023"
	// comes before "9/1/2023". The portal's own export behaves this
	// way and consumers depend on it, do not "fix" it here.
	Assignments []Assignment `json:"assignments"`
	// distinct category names among surviving assignments, first-seen
	// order
	Categories []string `json:"categories"`
	// optional caller-configured grading weights, see ApplyWeights
	Weights []CategoryWeight `json:"weights,omitempty"`
}

type Assignment struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	// DueDate is the raw Month/Day/Year text from the export.
	DueDate string  `json:"due_date"`
	Score   float64 `json:"score"`
	OutOf   float64 `json:"out_of"`
}

// MalformedRecordError is any fatal defect in the XML export: an
// unparsable document, a missing required element (Path names it), or
// an unparsable numeric field. Parsing never returns a partial model.
type MalformedRecordError struct {
	Path string
	Err  error
}

func (e *MalformedRecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed student record: %s: %s", e.Path, e.Err)
	}
	return fmt.Sprintf("malformed student record: missing %s", e.Path)
}

func (e *MalformedRecordError) Unwrap() error {
	return e.Err
}

// The export mixes unqualified elements with elements under this
// vendor namespace. It gets rewritten to the short alias "ao" before
// decoding so every lookup below can name it uniformly.
const recordNamespace = "urn:com:alleyoop:student-record:v0.1.0"
const namespaceAlias = "ao"

type xmlDocument struct {
	Student *xmlStudent `xml:"Student"`
}

type xmlStudent struct {
	Person         *xmlPerson         `xml:"Person"`
	AcademicRecord *xmlAcademicRecord `xml:"AcademicRecord"`
}

type xmlPerson struct {
	Name   *xmlPersonName `xml:"Name"`
	Gender *xmlGender     `xml:"Gender"`
}

type xmlPersonName struct {
	First *string `xml:"FirstName"`
	Last  *string `xml:"LastName"`
}

type xmlGender struct {
	Code *string `xml:"GenderCode"`
}

type xmlAcademicRecord struct {
	GPA     *xmlGPA     `xml:"GPA"`
	Courses []xmlCourse `xml:"Course"`
}

type xmlGPA struct {
	Value *string `xml:"GradePointAverage"`
}

type xmlCourse struct {
	Title      *string        `xml:"CourseTitle"`
	Extensions *xmlExtensions `xml:"UserDefinedExtensions"`
}

type xmlExtensions struct {
	Course *xmlCourseExtensions `xml:"ao CourseExtensions"`
}

type xmlCourseExtensions struct {
	Teacher     *string            `xml:"ao CourseTeacher"`
	Grade       *xmlCourseGrade    `xml:"ao CourseGrade"`
	Assignments *xmlAssignmentList `xml:"ao Assignments"`
}

type xmlCourseGrade struct {
	Letter  *string `xml:"ao CurrentGradeLetter"`
	Numeric *string `xml:"ao CurrentGradeNumeric"`
}

type xmlAssignmentList struct {
	Assignments []xmlAssignment `xml:"ao Assignment"`
}

type xmlAssignment struct {
	Name     *string `xml:"ao Name"`
	Category *string `xml:"ao Category"`
	DueDate  *string `xml:"ao DueDate"`
	Grade    *string `xml:"ao Grade"`
}

// greedy first group, so a grade splits on its last slash
var gradeRegex = regexp.MustCompile(`^(.*)/(.*)$`)

const placeholderScore = "--"

func requireText(v *string, path string) (string, error) {
	if v == nil {
		return "", &MalformedRecordError{Path: path}
	}
	return *v, nil
}

// ParseStudentRecord normalizes and decodes the portal's XML export
// into a Student. It is all-or-nothing: any missing required element,
// unparsable score, or undecodable document returns a
// *MalformedRecordError and no model.
func ParseStudentRecord(text string) (*Student, error) {
	normalized := strings.ReplaceAll(text, recordNamespace, namespaceAlias)

	var doc xmlDocument
	if err := xml.Unmarshal([]byte(normalized), &doc); err != nil {
		return nil, &MalformedRecordError{Path: "document", Err: err}
	}
	if doc.Student == nil {
		return nil, &MalformedRecordError{Path: "Student"}
	}
	if doc.Student.Person == nil {
		return nil, &MalformedRecordError{Path: "Student/Person"}
	}
	if doc.Student.Person.Name == nil {
		return nil, &MalformedRecordError{Path: "Student/Person/Name"}
	}
	if doc.Student.Person.Gender == nil {
		return nil, &MalformedRecordError{Path: "Student/Person/Gender"}
	}
	if doc.Student.AcademicRecord == nil {
		return nil, &MalformedRecordError{Path: "Student/AcademicRecord"}
	}
	if doc.Student.AcademicRecord.GPA == nil {
		return nil, &MalformedRecordError{Path: "Student/AcademicRecord/GPA"}
	}

	student := &Student{}
	var err error
	student.FirstName, err = requireText(doc.Student.Person.Name.First, "Student/Person/Name/FirstName")
	if err != nil {
		return nil, err
	}
	student.LastName, err = requireText(doc.Student.Person.Name.Last, "Student/Person/Name/LastName")
	if err != nil {
		return nil, err
	}
	student.Gender, err = requireText(doc.Student.Person.Gender.Code, "Student/Person/Gender/GenderCode")
	if err != nil {
		return nil, err
	}
	student.GPA, err = requireText(doc.Student.AcademicRecord.GPA.Value, "Student/AcademicRecord/GPA/GradePointAverage")
	if err != nil {
		return nil, err
	}

	for i, xc := range doc.Student.AcademicRecord.Courses {
		course, err := parseCourse(xc, fmt.Sprintf("Student/AcademicRecord/Course[%d]", i))
		if err != nil {
			return nil, err
		}
		student.Courses = append(student.Courses, course)
	}

	return student, nil
}

func parseCourse(xc xmlCourse, path string) (*Course, error) {
	course := &Course{}

	var err error
	course.Name, err = requireText(xc.Title, path+"/CourseTitle")
	if err != nil {
		return nil, err
	}

	// graded courses always carry the vendor extension subtree, its
	// absence is a defect in the export
	if xc.Extensions == nil || xc.Extensions.Course == nil {
		return nil, &MalformedRecordError{Path: path + "/UserDefinedExtensions/CourseExtensions"}
	}
	ext := xc.Extensions.Course
	extPath := path + "/UserDefinedExtensions/CourseExtensions"

	course.Teacher, err = requireText(ext.Teacher, extPath+"/CourseTeacher")
	if err != nil {
		return nil, err
	}
	if ext.Grade == nil {
		return nil, &MalformedRecordError{Path: extPath + "/CourseGrade"}
	}
	course.LetterGrade, err = requireText(ext.Grade.Letter, extPath+"/CourseGrade/CurrentGradeLetter")
	if err != nil {
		return nil, err
	}
	course.NumberGrade, err = requireText(ext.Grade.Numeric, extPath+"/CourseGrade/CurrentGradeNumeric")
	if err != nil {
		return nil, err
	}

	if ext.Assignments != nil {
		for j, xa := range ext.Assignments.Assignments {
			assignment, ok, err := parseAssignment(xa, fmt.Sprintf("%s/Assignments/Assignment[%d]", extPath, j))
			if err != nil {
				return nil, err
			}
			// assignments the portal has not graded yet are dropped
			// entirely, they contribute to no aggregate
			if !ok {
				continue
			}
			if !slices.Contains(course.Categories, assignment.Category) {
				course.Categories = append(course.Categories, assignment.Category)
			}
			course.Assignments = append(course.Assignments, assignment)
		}
	}

	slices.SortStableFunc(course.Assignments, func(a, b Assignment) int {
		return strings.Compare(a.DueDate, b.DueDate)
	})
	return course, nil
}

func parseAssignment(xa xmlAssignment, path string) (Assignment, bool, error) {
	var assignment Assignment

	var err error
	assignment.Name, err = requireText(xa.Name, path+"/Name")
	if err != nil {
		return assignment, false, err
	}
	assignment.Category, err = requireText(xa.Category, path+"/Category")
	if err != nil {
		return assignment, false, err
	}
	assignment.DueDate, err = requireText(xa.DueDate, path+"/DueDate")
	if err != nil {
		return assignment, false, err
	}

	gradeText, err := requireText(xa.Grade, path+"/Grade")
	if err != nil {
		return assignment, false, err
	}
	m := gradeRegex.FindStringSubmatch(gradeText)
	if m == nil {
		return assignment, false, &MalformedRecordError{
			Path: path + "/Grade",
			Err:  fmt.Errorf("%q is not in score/total form", gradeText),
		}
	}

	scoreText := strings.TrimSpace(m[1])
	if scoreText == placeholderScore {
		return assignment, false, nil
	}

	assignment.Score, err = strconv.ParseFloat(scoreText, 64)
	if err != nil {
		return assignment, false, &MalformedRecordError{Path: path + "/Grade", Err: err}
	}
	assignment.OutOf, err = strconv.ParseFloat(strings.TrimSpace(m[2]), 64)
	if err != nil {
		return assignment, false, &MalformedRecordError{Path: path + "/Grade", Err: err}
	}

	return assignment, true, nil
}
