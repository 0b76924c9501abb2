package powerschool

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func exportFixture() *Student {
	return &Student{
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
					{Name: "Cell Lab", Category: "Labs", DueDate: "9/12/2023", Score: 18.5, OutOf: 20},
				},
				Categories: []string{"Labs"},
			},
		},
	}
}

func TestExportJSON(t *testing.T) {
	data, err := ExportJSON(exportFixture())
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Equal(t, "Johnny", decoded["first_name"])
	require.Equal(t, "2.5", decoded["gpa"])

	courses := decoded["courses"].([]any)
	require.Len(t, courses, 1)
	course := courses[0].(map[string]any)
	require.Equal(t, "85.3", course["number_grade"])
	require.Equal(t, false, course["in_progress"])
}

func TestExportCompressedJSON(t *testing.T) {
	student := exportFixture()

	plain, err := ExportJSON(student)
	require.NoError(t, err)
	compressed, err := ExportCompressedJSON(student)
	require.NoError(t, err)

	r, err := zlib.NewReader(bytes.NewReader(compressed))
	require.NoError(t, err)
	defer r.Close()
	inflated, err := io.ReadAll(r)
	require.NoError(t, err)

	require.Equal(t, plain, inflated)
}
