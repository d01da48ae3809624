package driver

import (
	"github.com/pkg/errors"

	"github.com/vuolleko/FormulaAI/qlearn"
)

// QLearner is a Policy that learns to drive from rewards alone, through a qlearn.Controller.
type QLearner struct {
	Controller *qlearn.Controller
}

func (q *QLearner) DecideAction(in Sensors) ([]float64, error) {
	if n := q.Controller.NumActions(); n != NumActions {
		return nil, errors.Errorf("Controller has %d actions, expected %d", n, NumActions)
	}

	return q.Controller.Tick(in.Vector, qlearn.Feedback{Speed: in.Speed, Reset: in.Reset})
}

func (q *QLearner) Stats() qlearn.Stats {
	return q.Controller.Stats()
}
