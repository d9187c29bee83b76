package ranges

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type patternRange struct {
	Pattern string
	Range   string
}

func summarize(groups []FileGroup) []patternRange {
	var out []patternRange
	for _, g := range groups {
		out = append(out, patternRange{Pattern: g.Pattern, Range: g.Range})
	}
	return out
}

func TestGroup(t *testing.T) {
	tests := []struct {
		name         string
		files        []string
		wantGroups   []patternRange
		wantResidual []string
	}{
		{
			name:       "simple sequence",
			files:      []string{"file1.txt", "file2.txt", "file3.txt", "file5.txt"},
			wantGroups: []patternRange{{"file#.txt", "1-3,5"}},
		},
		{
			name:       "unpadded with varying width",
			files:      []string{"file1.txt", "file2.txt", "file3.txt", "file5.txt", "file16.txt", "file300.txt", "file310.txt"},
			wantGroups: []patternRange{{"file#.txt", "1-3,5,16,300,310"}},
		},
		{
			name:       "zero padded",
			files:      []string{"image_001.png", "image_002.png", "image_003.png", "image_100.png", "image_102.png"},
			wantGroups: []patternRange{{"image_###.png", "1-3,100,102"}},
		},
		{
			name: "mixed listing",
			files: []string{
				"file1.txt", "file2.txt", "file3.txt", "file5.txt", "file16.txt", "file300.txt", "file310.txt",
				"image_001.png", "image_002.png", "image_003.png", "image_100.png", "image_102.png",
				"doc_part1.docx", "doc_part2.docx", "doc_part3.docx", "my_last_bank.statement",
			},
			wantGroups: []patternRange{
				{"doc_part#.docx", "1-3"},
				{"file#.txt", "1-3,5,16,300,310"},
				{"image_###.png", "1-3,100,102"},
			},
			wantResidual: []string{"my_last_bank.statement"},
		},
		{
			name:  "screen frames split by extension",
			files: []string{"Pin1_0_00001.cbf", "Pin1_0_00002.cbf", "Pin1_0_00001.jpg", "Pin1_0_00002.jpg", "notes"},
			wantGroups: []patternRange{
				{"Pin1_0_#####.cbf", "1-2"},
				{"Pin1_0_#####.jpg", "1-2"},
			},
			wantResidual: []string{"notes"},
		},
		{
			name:         "nothing serial",
			files:        []string{"results.txt", "README"},
			wantResidual: []string{"README", "results.txt"},
		},
		{
			name: "empty listing",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups, residual := Group(tt.files)
			assert.Equal(t, tt.wantGroups, summarize(groups))
			assert.Equal(t, tt.wantResidual, residual)
		})
	}
}

func TestGroup_MixedWidthsShareFamily(t *testing.T) {
	groups, residual := Group([]string{"img1.cbf", "img0002.cbf", "img3.cbf"})
	require.Len(t, groups, 1)
	assert.Empty(t, residual)
	assert.Equal(t, "img####.cbf", groups[0].Pattern)
	assert.Equal(t, 4, groups[0].Serial.DigitWidth)
	assert.Equal(t, "1-3", groups[0].Range)
}

func TestGroup_Completeness(t *testing.T) {
	files := []string{
		"Pin1_1_00001.cbf", "Pin1_1_00002.cbf", "Pin1_1_00012.cbf",
		"Pin2_0_00001.img", "results.txt", "XDS_Pin1_1", "frame7.edf", "frame8.edf",
	}
	groups, residual := Group(files)

	seen := map[string]int{}
	for _, g := range groups {
		for _, m := range g.Members {
			seen[m]++
		}
	}
	for _, r := range residual {
		seen[r]++
	}
	require.Len(t, seen, len(files))
	for _, f := range files {
		assert.Equal(t, 1, seen[f], "%s must appear exactly once", f)
	}
}

func TestFileGroup_ExtensionAndNumbers(t *testing.T) {
	groups, _ := Group([]string{"Pin3_1_00001.cbf", "Pin3_1_00002.cbf", "Pin3_1_00004.cbf"})
	require.Len(t, groups, 1)
	assert.Equal(t, "cbf", groups[0].Extension())
	assert.Equal(t, []int{1, 2, 4}, groups[0].Numbers())
	assert.Equal(t, groups[0].Members, groups[0].Serial.NamesFromList(groups[0].Numbers()))
}
