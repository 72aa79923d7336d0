package cmd

import (
	"errors"
	"fmt"

	"github.com/nullvm/jattr/internal/attr/decoder"
	"github.com/nullvm/jattr/internal/attr/fixtures"
	"github.com/nullvm/jattr/internal/attr/host"
	"github.com/nullvm/jattr/internal/attr/query"
	"github.com/spf13/cobra"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the seven reference scenarios against hand-built streams",
	Long: `demo decodes the seven attribute streams used throughout this
project's test suite — no .jatr file required. Each one exercises a
different corner of the decoder: absence, signatures, exceptions,
anonymous classes, annotations, nested annotation arrays, and a
declared/tag type mismatch.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		runStreamScenarios()
		runMismatchScenario()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runStreamScenarios() {
	scenarios := []fixtures.Scenario{
		fixtures.Scenario1Absent(),
		fixtures.Scenario2Signature(),
		fixtures.Scenario3Exceptions(),
		fixtures.Scenario4AnonymousInner(),
		fixtures.Scenario5Annotation(),
		fixtures.Scenario6NestedArray(),
	}

	for _, s := range scenarios {
		fmt.Printf("--- %s ---\n", s.Name)
		describeScenario(s)
	}
}

func describeScenario(s fixtures.Scenario) {
	switch s.Name {
	case "absent attributes":
		exc, err := query.ExceptionTypes(s.Owner, s.Boot)
		fmt.Printf("exceptions: %v (err=%v)\n", exc, err)
		annos, err := query.Annotations(s.Owner, s.Boot)
		fmt.Printf("annotations: %v (err=%v)\n", annos, err)

	case "single signature":
		sig, err := query.Signature(s.Owner)
		fmt.Printf("signature: %q (err=%v)\n", sig, err)

	case "exceptions list":
		exc, err := query.ExceptionTypes(s.Owner, s.Boot)
		for _, c := range exc {
			fmt.Printf("exception: %s\n", c.BinaryName)
		}
		if err != nil {
			fmt.Printf("err=%v\n", err)
		}

	case "anonymous inner":
		anon, err := query.IsAnonymousClass(s.Owner)
		fmt.Printf("isAnonymousClass: %v (err=%v)\n", anon, err)
		declaring, err := query.DeclaringClass(s.Owner, s.Boot)
		if declaring != nil {
			fmt.Printf("declaringClass: %s\n", declaring.BinaryName)
		}
		if err != nil {
			fmt.Printf("err=%v\n", err)
		}

	case "annotation with primitive and string":
		annos, err := query.Annotations(s.Owner, s.Boot)
		if err != nil {
			fmt.Printf("err=%v\n", err)
			return
		}
		x, _ := annos[0].Get("x")
		str, _ := annos[0].Get("s")
		fmt.Printf("x=%v s=%v\n", x, str)

	case "nested annotation array":
		annos, err := query.Annotations(s.Owner, s.Boot)
		if err != nil {
			fmt.Printf("err=%v\n", err)
			return
		}
		list, _ := annos[0].Get("list")
		inner, ok := list.([]any)
		if !ok {
			fmt.Printf("list has unexpected shape: %T\n", list)
			return
		}
		for i, elem := range inner {
			anno := elem.(host.Annotation)
			v, _ := anno.Get("v")
			fmt.Printf("list[%d].v = %v\n", i, v)
		}
	}
}

func runMismatchScenario() {
	fmt.Println("--- tag/type mismatch ---")
	cur, bs := fixtures.Scenario7TypeMismatch()
	_, err := decoder.ParseElementValue(cur, "I", bs, nil)

	var formatErr *decoder.FormatError
	if errors.As(err, &formatErr) {
		fmt.Printf("format error: %s\n", formatErr.Error())
		return
	}
	fmt.Printf("unexpected result: err=%v\n", err)
}
