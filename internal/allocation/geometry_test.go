package allocation

import "testing"

func TestSeatNumberRowMajor(t *testing.T) {
	cases := []struct {
		row, col uint32
		want     uint32
	}{
		{1, 1, 1},
		{1, 3, 3},
		{2, 1, 4},
		{3, 3, 9},
	}
	for _, c := range cases {
		got := SeatNumber(c.row, c.col, 3, 3, NumberingRowMajor)
		if got != c.want {
			t.Errorf("SeatNumber(%d,%d) row-major = %d, want %d", c.row, c.col, got, c.want)
		}
	}
}

func TestSeatNumberColumnMajor(t *testing.T) {
	cases := []struct {
		row, col uint32
		want     uint32
	}{
		{1, 1, 1},
		{3, 1, 3},
		{1, 2, 4},
		{3, 3, 9},
	}
	for _, c := range cases {
		got := SeatNumber(c.row, c.col, 3, 3, NumberingColumnMajor)
		if got != c.want {
			t.Errorf("SeatNumber(%d,%d) column-major = %d, want %d", c.row, c.col, got, c.want)
		}
	}
}

func TestAdjacentFourDirectional(t *testing.T) {
	center := Seat{HallID: 1, Row: 2, Col: 2}
	if !Adjacent(center, Seat{HallID: 1, Row: 1, Col: 2}) {
		t.Error("seat above should be adjacent")
	}
	if !Adjacent(center, Seat{HallID: 1, Row: 2, Col: 3}) {
		t.Error("seat to the right should be adjacent")
	}
	if Adjacent(center, Seat{HallID: 1, Row: 1, Col: 1}) {
		t.Error("diagonal seat must not be adjacent")
	}
	if Adjacent(center, Seat{HallID: 1, Row: 2, Col: 2}) {
		t.Error("a seat is not adjacent to itself")
	}
	if Adjacent(center, Seat{HallID: 2, Row: 2, Col: 3}) {
		t.Error("seats in different halls are never adjacent")
	}
}

func TestEnumerateSeatsHallOrder(t *testing.T) {
	halls := []Hall{
		{ID: 7, Name: "West Wing", Rows: 1, Cols: 2},
		{ID: 3, Name: "Annex", Rows: 1, Cols: 2},
	}
	seats := EnumerateSeats(halls, NumberingRowMajor)
	if len(seats) != 4 {
		t.Fatalf("expected 4 seats, got %d", len(seats))
	}
	// Annex sorts before West Wing regardless of input order.
	if seats[0].HallID != 3 || seats[1].HallID != 3 {
		t.Errorf("expected hall 3 first, got %+v", seats[:2])
	}
	if seats[2].HallID != 7 {
		t.Errorf("expected hall 7 after hall 3, got %+v", seats[2])
	}
}

func TestEnumerateSeatsRowMajorOrder(t *testing.T) {
	halls := []Hall{{ID: 1, Name: "A", Rows: 2, Cols: 2}}
	seats := EnumerateSeats(halls, NumberingRowMajor)
	for i, s := range seats {
		if s.Number != uint32(i+1) {
			t.Errorf("seat %d has number %d, want %d", i, s.Number, i+1)
		}
	}
	if seats[1].Row != 1 || seats[1].Col != 2 {
		t.Errorf("second seat should be (1,2), got (%d,%d)", seats[1].Row, seats[1].Col)
	}
}

func TestEnumerateSeatsColumnMajorOrder(t *testing.T) {
	halls := []Hall{{ID: 1, Name: "A", Rows: 2, Cols: 2}}
	seats := EnumerateSeats(halls, NumberingColumnMajor)
	for i, s := range seats {
		if s.Number != uint32(i+1) {
			t.Errorf("seat %d has number %d, want %d", i, s.Number, i+1)
		}
	}
	if seats[1].Row != 2 || seats[1].Col != 1 {
		t.Errorf("second seat should be (2,1), got (%d,%d)", seats[1].Row, seats[1].Col)
	}
}

func TestCapacity(t *testing.T) {
	halls := []Hall{
		{ID: 1, Rows: 3, Cols: 4},
		{ID: 2, Rows: 2, Cols: 5},
	}
	if got := Capacity(halls); got != 22 {
		t.Errorf("Capacity = %d, want 22", got)
	}
	if got := Capacity(nil); got != 0 {
		t.Errorf("Capacity(nil) = %d, want 0", got)
	}
}
