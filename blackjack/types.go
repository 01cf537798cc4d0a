package blackjack

import "blackjack-lite/card"

// Shoe composition is fixed: six standard packs, reshuffled when fewer
// than ReshuffleThreshold cards remain at the start of a round.
const (
	NumPacks           = 6
	PackSize           = 52
	ShoeSize           = NumPacks * PackSize
	ReshuffleThreshold = 15
)

// Phase 回合阶段
type Phase byte

const (
	PhaseTypeDealing      Phase = 0
	PhaseTypeNaturalCheck Phase = 1
	PhaseTypeFirstAction  Phase = 2
	PhaseTypePlayerTurn   Phase = 3
	PhaseTypeDealerTurn   Phase = 4
	PhaseTypeResolve      Phase = 5
	PhaseTypeRoundEnd     Phase = 6
)

var PhaseTypeDictionary = map[Phase]string{
	PhaseTypeDealing:      "dealing",
	PhaseTypeNaturalCheck: "naturalcheck",
	PhaseTypeFirstAction:  "firstaction",
	PhaseTypePlayerTurn:   "playerturn",
	PhaseTypeDealerTurn:   "dealerturn",
	PhaseTypeResolve:      "resolve",
	PhaseTypeRoundEnd:     "roundend",
}

// ActionType 动作类型：0-NONE 1-HIT 2-STAND 3-DOUBLE 4-SPLIT 5-SURRENDER
type ActionType byte

const (
	PlayerActionTypeNone      ActionType = 0
	PlayerActionTypeHit       ActionType = 1
	PlayerActionTypeStand     ActionType = 2
	PlayerActionTypeDouble    ActionType = 3
	PlayerActionTypeSplit     ActionType = 4
	PlayerActionTypeSurrender ActionType = 5
)

var PlayerActionTypeDictionary = map[ActionType]string{
	PlayerActionTypeNone:      "NONE",
	PlayerActionTypeHit:       "HIT",
	PlayerActionTypeStand:     "STAND",
	PlayerActionTypeDouble:    "DOUBLE",
	PlayerActionTypeSplit:     "SPLIT",
	PlayerActionTypeSurrender: "SURRENDER",
}

// GameResult 单局结果
type GameResult byte

const (
	GameResultNone            GameResult = 0
	GameResultPlayerWin       GameResult = 1
	GameResultDealerWin       GameResult = 2
	GameResultPush            GameResult = 3
	GameResultPlayerBlackjack GameResult = 4
	GameResultSurrender       GameResult = 5
	GameResultDoubledWin      GameResult = 6
	GameResultDoubledLose     GameResult = 7
)

var GameResultDictionary = map[GameResult]string{
	GameResultNone:            "NONE",
	GameResultPlayerWin:       "PLAYER_WIN",
	GameResultDealerWin:       "DEALER_WIN",
	GameResultPush:            "PUSH",
	GameResultPlayerBlackjack: "PLAYER_BLACKJACK",
	GameResultSurrender:       "SURRENDER",
	GameResultDoubledWin:      "DOUBLED_WIN",
	GameResultDoubledLose:     "DOUBLED_LOSE",
}

func (r GameResult) String() string {
	if s, ok := GameResultDictionary[r]; ok {
		return s
	}
	return "UNKNOWN"
}

// PackCards is one standard pack in suit-major, rank-ascending order.
// The pre-shuffle shoe is NumPacks copies of this sequence.
var PackCards = []card.Card{
	card.CardSpadeA, card.CardSpade2, card.CardSpade3, card.CardSpade4, card.CardSpade5, card.CardSpade6,
	card.CardSpade7, card.CardSpade8, card.CardSpade9, card.CardSpadeT, card.CardSpadeJ, card.CardSpadeQ, card.CardSpadeK,
	card.CardHeartA, card.CardHeart2, card.CardHeart3, card.CardHeart4, card.CardHeart5, card.CardHeart6,
	card.CardHeart7, card.CardHeart8, card.CardHeart9, card.CardHeartT, card.CardHeartJ, card.CardHeartQ, card.CardHeartK,
	card.CardClubA, card.CardClub2, card.CardClub3, card.CardClub4, card.CardClub5, card.CardClub6,
	card.CardClub7, card.CardClub8, card.CardClub9, card.CardClubT, card.CardClubJ, card.CardClubQ, card.CardClubK,
	card.CardDiamondA, card.CardDiamond2, card.CardDiamond3, card.CardDiamond4, card.CardDiamond5, card.CardDiamond6,
	card.CardDiamond7, card.CardDiamond8, card.CardDiamond9, card.CardDiamondT, card.CardDiamondJ, card.CardDiamondQ, card.CardDiamondK,
}
