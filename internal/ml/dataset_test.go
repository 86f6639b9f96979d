package ml

import "testing"

func syntheticDataset(n int) *Dataset {
	d := &Dataset{
		X: make([][]float64, n),
		Y: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		d.X[i] = []float64{float64(i), float64(i % 7)}
		if i%4 == 0 {
			d.Y[i] = 1
		}
	}
	return d
}

func TestDatasetValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       *Dataset
		wantErr bool
	}{
		{"valid", &Dataset{X: [][]float64{{1, 2}, {3, 4}}, Y: []float64{0, 1}}, false},
		{"empty", &Dataset{}, true},
		{"misaligned", &Dataset{X: [][]float64{{1}}, Y: []float64{0, 1}}, true},
		{"ragged", &Dataset{X: [][]float64{{1, 2}, {3}}, Y: []float64{0, 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.d.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTrainTestSplitStratified(t *testing.T) {
	d := syntheticDataset(200) // 50 positive, 150 negative
	train, test := TrainTestSplit(d, 0.2, true, DefaultSeed)

	if train.Len()+test.Len() != d.Len() {
		t.Fatalf("split lost rows: %d + %d != %d", train.Len(), test.Len(), d.Len())
	}

	countPos := func(d *Dataset) int {
		n := 0
		for _, y := range d.Y {
			if y >= 0.5 {
				n++
			}
		}
		return n
	}
	if got := countPos(test); got != 10 {
		t.Errorf("test positives = %d, want 10", got)
	}
	if got := countPos(train); got != 40 {
		t.Errorf("train positives = %d, want 40", got)
	}
}

func TestTrainTestSplitDeterministic(t *testing.T) {
	d := syntheticDataset(100)
	train1, _ := TrainTestSplit(d, 0.2, true, DefaultSeed)
	train2, _ := TrainTestSplit(d, 0.2, true, DefaultSeed)

	for i := range train1.X {
		if train1.X[i][0] != train2.X[i][0] {
			t.Fatalf("same seed produced different splits at row %d", i)
		}
	}
}

func TestKFold(t *testing.T) {
	folds := KFold(103, 5, DefaultSeed)
	if len(folds) != 5 {
		t.Fatalf("got %d folds, want 5", len(folds))
	}

	seen := make(map[int]int)
	for _, fold := range folds {
		train, test := fold[0], fold[1]
		if len(train)+len(test) != 103 {
			t.Errorf("fold sizes %d + %d != 103", len(train), len(test))
		}
		for _, i := range test {
			seen[i]++
		}
	}
	if len(seen) != 103 {
		t.Fatalf("test partitions cover %d rows, want 103", len(seen))
	}
	for i, n := range seen {
		if n != 1 {
			t.Errorf("row %d appears in %d test partitions", i, n)
		}
	}
}
