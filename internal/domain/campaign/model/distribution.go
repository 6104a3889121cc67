package model

// Award 一次奖励
type Award struct {
	SubmissionID string  `json:"submission_id"`
	UserID       string  `json:"user_id"`
	Amount       float64 `json:"prize_amount"`
}

// DistributionPlan 评奖结果，先计算后在同一事务中落库
type DistributionPlan struct {
	CampaignID   string
	First        Award
	Second       Award
	Participants []Award // Amount 为积分
	PointsEach   int64
	ResetIDs     []string // 需要重置为 approved 的投稿
}

// DistributionResult 返回给后台的评奖摘要
type DistributionResult struct {
	CampaignID           string               `json:"campaign_id"`
	FirstWinner          Award                `json:"first_winner"`
	SecondWinner         Award                `json:"second_winner"`
	ParticipationRewards ParticipationRewards `json:"participation_rewards"`
}

type ParticipationRewards struct {
	NonWinnersCount int   `json:"non_winners_count"`
	PointsEach      int64 `json:"points_each"`
}

func (p *DistributionPlan) Result() *DistributionResult {
	return &DistributionResult{
		CampaignID:   p.CampaignID,
		FirstWinner:  p.First,
		SecondWinner: p.Second,
		ParticipationRewards: ParticipationRewards{
			NonWinnersCount: len(p.Participants),
			PointsEach:      p.PointsEach,
		},
	}
}
