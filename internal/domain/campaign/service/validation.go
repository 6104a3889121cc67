package service

import (
	"fmt"
	"strings"
	"time"

	"art_contest_admin/internal/domain/campaign/model"
)

// CampaignInput 创建/编辑活动的参数
type CampaignInput struct {
	Name               string
	Description        string
	ReferenceImage     string
	Category           string
	AgeGroup           string
	CampaignType       model.CampaignType
	MaxParticipants    int
	EntryFee           model.EntryFee
	PointsRequired     int64
	Prizes             model.Prizes
	Rules              string
	StartDate          time.Time
	EndDate            time.Time
	SubmissionDeadline time.Time
	ResultDate         time.Time
	SubmissionType     model.SubmissionType
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidCampaign, fmt.Sprintf(format, args...))
}

// normalize 填充默认值并按活动类型清理无关字段
func (in *CampaignInput) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.ReferenceImage = strings.TrimSpace(in.ReferenceImage)
	if in.AgeGroup == "" {
		in.AgeGroup = "all"
	}
	if in.SubmissionType == "" {
		in.SubmissionType = model.SubmissionOffline
	}
	if in.EntryFee.Type == "" {
		in.EntryFee.Type = "rupees"
	}

	switch in.CampaignType {
	case model.TypeFree:
		in.EntryFee.Amount = 0
		in.PointsRequired = 0
	case model.TypePremium:
		in.PointsRequired = 0
	case model.TypePointBased:
		in.EntryFee.Amount = 0
	}
}

func (in *CampaignInput) validate() error {
	if in.Name == "" {
		return invalid("name is required")
	}
	if in.ReferenceImage == "" {
		return invalid("reference_image is required")
	}
	if in.Category == "" {
		return invalid("category is required")
	}
	if in.MaxParticipants < 1 {
		return invalid("max_participants must be at least 1")
	}
	if !in.CampaignType.Valid() {
		return invalid("campaign_type must be premium, point-based or free")
	}
	if !in.SubmissionType.Valid() {
		return invalid("submission_type must be offline, digital or both")
	}

	switch in.CampaignType {
	case model.TypePremium:
		if in.EntryFee.Amount <= 0 {
			return invalid("premium campaigns require an entry fee greater than 0")
		}
	case model.TypePointBased:
		if in.PointsRequired <= 0 {
			return invalid("point-based campaigns require points_required greater than 0")
		}
	}

	if in.Prizes.FirstPrize < 0 || in.Prizes.SecondPrize < 0 || in.Prizes.PlatformShare < 0 {
		return invalid("prize amounts cannot be negative")
	}

	if in.StartDate.IsZero() || in.EndDate.IsZero() || in.SubmissionDeadline.IsZero() || in.ResultDate.IsZero() {
		return invalid("start_date, end_date, submission_deadline and result_date are required")
	}
	if !in.StartDate.Before(in.EndDate) {
		return invalid("start_date must be before end_date")
	}
	if in.SubmissionDeadline.After(in.EndDate) {
		return invalid("submission_deadline cannot be after end_date")
	}
	if in.ResultDate.Before(in.EndDate) {
		return invalid("result_date cannot be before end_date")
	}
	return nil
}

// apply 把参数写入活动
func (in *CampaignInput) apply(c *model.Campaign) {
	c.Name = in.Name
	c.Description = in.Description
	c.ReferenceImage = in.ReferenceImage
	c.Category = in.Category
	c.AgeGroup = in.AgeGroup
	c.CampaignType = in.CampaignType
	c.MaxParticipants = in.MaxParticipants
	c.EntryFee = in.EntryFee
	c.PointsRequired = in.PointsRequired
	c.Prizes = in.Prizes
	c.Rules = in.Rules
	c.StartDate = in.StartDate
	c.EndDate = in.EndDate
	c.SubmissionDeadline = in.SubmissionDeadline
	c.ResultDate = in.ResultDate
	c.SubmissionType = in.SubmissionType
}

// transitions 允许的状态流转
var transitions = map[model.Status][]model.Status{
	model.StatusDraft:  {model.StatusActive, model.StatusCancelled},
	model.StatusActive: {model.StatusCompleted, model.StatusCancelled},
}

func canTransition(from, to model.Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
