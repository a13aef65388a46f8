package achievement

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"
)

var (
	envOnce sync.Once
	env     *cel.Env
	envErr  error
)

func ruleEnv() (*cel.Env, error) {
	envOnce.Do(func() {
		env, envErr = cel.NewEnv(
			cel.Variable("total_xp", cel.IntType),
			cel.Variable("level", cel.IntType),
			cel.Variable("current_streak", cel.IntType),
			cel.Variable("longest_streak", cel.IntType),
			cel.Variable("lessons_completed", cel.IntType),
			cel.Variable("activities_completed", cel.IntType),
			cel.Variable("event", cel.StringType),
			cel.Variable("accuracy", cel.DoubleType),
			cel.Variable("exercises", cel.IntType),
			cel.CrossTypeNumericComparisons(true),
		)
	})
	return env, envErr
}

func compileRule(expr string) (cel.Program, error) {
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	e, err := ruleEnv()
	if err != nil {
		return nil, fmt.Errorf("build environment: %w", err)
	}
	ast, iss := e.Compile(expr)
	if iss != nil && iss.Err() != nil {
		return nil, iss.Err()
	}
	if !ast.OutputType().IsExactType(cel.BoolType) {
		return nil, fmt.Errorf("expression must be boolean, got %s", ast.OutputType())
	}
	return e.Program(ast)
}

func activation(s Snapshot, ev Event) map[string]any {
	return map[string]any{
		"total_xp":             int64(s.TotalXP),
		"level":                int64(s.Level),
		"current_streak":       int64(s.CurrentStreak),
		"longest_streak":       int64(s.LongestStreak),
		"lessons_completed":    int64(s.LessonsCompleted),
		"activities_completed": int64(s.ActivitiesCompleted),
		"event":                string(ev.Type),
		"accuracy":             ev.Accuracy,
		"exercises":            int64(ev.Exercises),
	}
}

// evalRule reports whether prg is satisfied. Evaluation errors count as not met.
func evalRule(prg cel.Program, s Snapshot, ev Event) bool {
	out, _, err := prg.Eval(activation(s, ev))
	if err != nil {
		return false
	}
	met, ok := out.Value().(bool)
	return ok && met
}
