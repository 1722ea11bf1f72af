package set_test

import (
	"fmt"

	"github.com/ordrect/ordrect/pkg/rect"
	"github.com/ordrect/ordrect/pkg/set"
)

func ExampleSet_Order() {
	s := set.New()
	a, _ := s.Insert(rect.Rectangle{Left: 0, Top: 0, Right: 10, Bottom: 10})
	b, _ := s.Insert(rect.Rectangle{Left: 5, Top: 5, Right: 15, Bottom: 15})
	_ = s.AddConstraint(a, b)

	ids, conflict := s.Order()
	fmt.Println(len(ids), conflict)
	fmt.Println(ids[0] == a, ids[1] == b)
	// Output:
	// 2 <nil>
	// true true
}

func ExampleSet_QueryOverlap() {
	s := set.New()
	a, _ := s.Insert(rect.Rectangle{Left: 0, Top: 0, Right: 10, Bottom: 10})
	b, _ := s.Insert(rect.Rectangle{Left: 5, Top: 5, Right: 15, Bottom: 15})

	kind, _ := s.QueryOverlap(a, b)
	fmt.Println(kind)
	// Output:
	// overlapping
}

func ExampleSet_View() {
	s := set.New()
	_, _ = s.Insert(rect.Rectangle{Left: 1, Top: 1, Right: 5, Bottom: 2})
	_, _ = s.Insert(rect.Rectangle{Left: 1, Top: 3, Right: 5, Bottom: 4})

	view, _ := s.View(5)
	fmt.Println(view)
	// Output:
	// 1####
	// #####
	// 2####
	// #####
}
