package order_test

import (
	"fmt"

	"github.com/ordrect/ordrect/pkg/order"
	"github.com/ordrect/ordrect/pkg/rect"
)

func ExampleResolve() {
	a, _ := rect.New(0, 0, 10, 10)
	b, _ := rect.New(5, 5, 15, 15)

	g, _ := order.Build(
		[]order.Item{{ID: "a", Rect: a}, {ID: "b", Rect: b}},
		[]order.Constraint{{Before: "a", After: "b"}},
	)

	ids, conflict := order.Resolve(g)
	fmt.Println(ids, conflict)
	// Output:
	// [a b] <nil>
}

func ExampleResolve_conflict() {
	a, _ := rect.New(0, 0, 10, 10)
	b, _ := rect.New(5, 5, 15, 15)
	c, _ := rect.New(8, 8, 20, 20)

	g, _ := order.Build(
		[]order.Item{{ID: "a", Rect: a}, {ID: "b", Rect: b}, {ID: "c", Rect: c}},
		[]order.Constraint{
			{Before: "a", After: "b"},
			{Before: "b", After: "c"},
			{Before: "c", After: "a"},
		},
	)

	ids, conflict := order.Resolve(g)
	fmt.Println(ids)
	fmt.Println(conflict)
	// Output:
	// []
	// cycle detected among [a b c]: a→b → b→c → c→a
}

func ExampleWithContainmentInference() {
	outer, _ := rect.New(0, 0, 100, 100)
	inner, _ := rect.New(10, 10, 20, 20)

	g, _ := order.Build(
		[]order.Item{{ID: "outer", Rect: outer}, {ID: "inner", Rect: inner}},
		nil,
		order.WithContainmentInference(),
	)

	ids, _ := order.Resolve(g)
	fmt.Println(ids)
	// Output:
	// [outer inner]
}
