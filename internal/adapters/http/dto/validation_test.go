package dto

import (
	"fmt"
	"io"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/campus-qa/internal/app"
)

func stringsReader(s string) io.Reader { return strings.NewReader(s) }

func strPtr(s string) *string { return &s }

func TestValidate_CreateQuestionRequest(t *testing.T) {
	tests := []struct {
		name       string
		req        CreateQuestionRequest
		wantFields []string
	}{
		{
			name: "valid",
			req:  CreateQuestionRequest{Author: "ana", Content: "Where is room B12?", Tags: []string{"campus"}},
		},
		{
			name:       "missing author and content",
			req:        CreateQuestionRequest{},
			wantFields: []string{"author", "content"},
		},
		{
			name:       "blank content",
			req:        CreateQuestionRequest{Author: "ana", Content: " \t "},
			wantFields: []string{"content"},
		},
		{
			name:       "punctuation-only tag",
			req:        CreateQuestionRequest{Author: "ana", Content: "hi", Tags: []string{"#!?"}},
			wantFields: []string{"tags[0]"},
		},
		{
			name: "too many tags",
			req: CreateQuestionRequest{
				Author: "ana", Content: "hi",
				Tags: strings.Split("a,b,c,d,e,f,g,h,i,j,k", ","),
			},
			wantFields: []string{"tags"},
		},
		{
			name:       "content too long",
			req:        CreateQuestionRequest{Author: "ana", Content: strings.Repeat("x", MaxContentLength+1)},
			wantFields: []string{"content"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)
			if len(tt.wantFields) == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, IsValidationError(err))

			details := ValidationErrors(err)
			for _, f := range tt.wantFields {
				assert.Contains(t, details, f)
			}
		})
	}
}

func TestValidationMessages(t *testing.T) {
	err := Validate(&CreateQuestionRequest{Author: strings.Repeat("a", MaxAuthorLength+1), Content: "x"})
	require.Error(t, err)

	assert.Equal(t, "must be at most 80 characters", ValidationErrors(err)["author"])

	err = Validate(&ListQuestionsQuery{Sort: "oldest"})
	require.Error(t, err)

	assert.Equal(t, "must be one of: recent trending", ValidationErrors(err)["sort"])
}

func TestUpdateQuestionRequest(t *testing.T) {
	req := UpdateQuestionRequest{Content: strPtr("updated")}
	require.NoError(t, Validate(&req))

	edit := req.Edit()
	assert.Nil(t, edit.Author)
	assert.Equal(t, "updated", *edit.Content)

	require.Error(t, Validate(&UpdateQuestionRequest{Author: strPtr("  ")}))
}

func TestListQuestionsQuery_Filter(t *testing.T) {
	q := ListQuestionsQuery{Tags: []string{"exams"}, Search: "final"}
	assert.Equal(t, app.QuestionFilter{Tags: []string{"exams"}, Search: "final", Sort: app.SortRecent}, q.Filter())

	q.Sort = "trending"
	assert.Equal(t, app.SortTrending, q.Filter().Sort)
}

func TestFlagRequest(t *testing.T) {
	require.Error(t, Validate(&FlagRequest{}))

	v := false
	require.NoError(t, Validate(&FlagRequest{Value: &v}))
}

func TestFieldLimitsMatchTags(t *testing.T) {
	tests := []struct {
		typ   any
		field string
		want  string
	}{
		{CreateQuestionRequest{}, "Author", fmt.Sprintf("max=%d", MaxAuthorLength)},
		{CreateQuestionRequest{}, "Content", fmt.Sprintf("max=%d", MaxContentLength)},
		{CreateQuestionRequest{}, "Tags", fmt.Sprintf("max=%d,dive", MaxTags)},
		{CreateQuestionRequest{}, "Tags", fmt.Sprintf("tag,max=%d", MaxTagLength)},
		{UpdateQuestionRequest{}, "Author", fmt.Sprintf("max=%d", MaxAuthorLength)},
		{UpdateQuestionRequest{}, "Content", fmt.Sprintf("max=%d", MaxContentLength)},
		{UpdateQuestionRequest{}, "Tags", fmt.Sprintf("max=%d,dive", MaxTags)},
		{UpdateQuestionRequest{}, "Tags", fmt.Sprintf("tag,max=%d", MaxTagLength)},
		{CreateReplyRequest{}, "Author", fmt.Sprintf("max=%d", MaxAuthorLength)},
		{CreateReplyRequest{}, "Content", fmt.Sprintf("max=%d", MaxContentLength)},
		{TagRequest{}, "Tag", fmt.Sprintf("max=%d", MaxTagLength)},
		{BannedWordRequest{}, "Word", fmt.Sprintf("max=%d", MaxWordLength)},
	}

	for _, tt := range tests {
		typ := reflect.TypeOf(tt.typ)

		t.Run(typ.Name()+"."+tt.field, func(t *testing.T) {
			f, ok := typ.FieldByName(tt.field)
			require.True(t, ok)
			assert.Contains(t, f.Tag.Get("validate"), tt.want)
		})
	}
}
