package usecase

import (
	"context"

	"github.com/rocketscienceinc/tictactoe-arena/internal/entity"
	"github.com/rocketscienceinc/tictactoe-arena/internal/service"
)

type agentPlayer struct {
	agent *service.LoadedAgent
}

// NewAgentPlayer lets a loaded agent take part in a match.
func NewAgentPlayer(agent *service.LoadedAgent) Player {
	return &agentPlayer{agent: agent}
}

func (that *agentPlayer) Name() string {
	return that.agent.Source
}

func (that *agentPlayer) Mark() entity.Mark {
	return that.agent.Symbol()
}

func (that *agentPlayer) NextMove(_ context.Context, game *entity.Game) (int, error) {
	return that.agent.ChooseMove(game.Board)
}
