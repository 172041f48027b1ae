package lang_test

import (
	"context"
	"fmt"

	"github.com/ardnew/pbsmake/lang"
)

func ExampleDocument_ResolveAndRender() {
	doc, err := lang.Parse(context.Background(), `
QUEUE = batch

%.job: setup
	#PBS -q ${QUEUE}
	@(echo run ${pm_target_match})

setup:
	@(echo prepare)
`, lang.WithAmbient(nil))
	if err != nil {
		fmt.Println(err)

		return
	}

	out, err := doc.ResolveAndRender("sim.job")
	if err != nil {
		fmt.Println(err)

		return
	}

	fmt.Print(out)
	// Output:
	// setup:
	// 	prepare
	//
	// sim.job::afterok: setup
	// 	#PBS -q ${QUEUE}
	// 	run sim
}

func ExampleDocument_Graph() {
	doc, _ := lang.Parse(context.Background(), "all: b a\na:\nb: a\n", lang.WithAmbient(nil))

	targets, _ := doc.Graph()
	for _, t := range targets {
		fmt.Println(t.Name(), t.Dependencies().Names())
	}
	// Output:
	// a []
	// b [a]
	// all [b a]
}

func ExampleEnvironment_Expand() {
	env := lang.NewEnvironment(nil)
	env.Set("stem", "report")

	s, _ := env.Expand("${stem}.txt")
	fmt.Println(s)

	_, err := env.Expand("${stem")
	fmt.Println(err != nil)
	// Output:
	// report.txt
	// true
}
