package service

import (
	"art_contest_admin/internal/domain/campaign/model"
)

// PlanDistribution 计算评奖方案，不做任何写操作
func PlanDistribution(campaign *model.Campaign, submissions []model.Submission, firstID, secondID string, pointsEach int64) (*model.DistributionPlan, error) {
	if firstID == "" || secondID == "" {
		return nil, ErrWinnerRequired
	}
	if firstID == secondID {
		return nil, ErrSameWinner
	}

	plan := &model.DistributionPlan{
		CampaignID: campaign.ID,
		PointsEach: pointsEach,
	}

	var foundFirst, foundSecond bool
	for _, sub := range submissions {
		if sub.CampaignID != campaign.ID {
			continue
		}
		switch sub.ID {
		case firstID:
			plan.First = model.Award{SubmissionID: sub.ID, UserID: sub.UserID, Amount: campaign.Prizes.FirstPrize}
			foundFirst = true
		case secondID:
			plan.Second = model.Award{SubmissionID: sub.ID, UserID: sub.UserID, Amount: campaign.Prizes.SecondPrize}
			foundSecond = true
		default:
			// 其余每份投稿给所属用户发放参与积分
			plan.Participants = append(plan.Participants, model.Award{
				SubmissionID: sub.ID,
				UserID:       sub.UserID,
				Amount:       float64(pointsEach),
			})
			if sub.Status != model.SubmissionApproved {
				plan.ResetIDs = append(plan.ResetIDs, sub.ID)
			}
		}
	}

	if !foundFirst || !foundSecond {
		return nil, ErrWinnerNotInCampaign
	}
	return plan, nil
}
