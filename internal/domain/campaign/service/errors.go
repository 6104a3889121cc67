package service

import "errors"

var (
	ErrCampaignNotFound       = errors.New("campaign not found")
	ErrSubmissionNotFound     = errors.New("submission not found")
	ErrInvalidCampaign        = errors.New("invalid campaign")
	ErrInvalidStatus          = errors.New("invalid campaign status")
	ErrInvalidTransition      = errors.New("invalid status transition")
	ErrConcurrentUpdate       = errors.New("campaign was modified by another request, please refresh")
	ErrNoSubmissions          = errors.New("cannot complete a campaign with no submissions, wait for participants to submit")
	ErrWinnersNotSelected     = errors.New("select a first prize winner and a runner-up before completing the campaign")
	ErrCampaignClosed         = errors.New("campaign is already closed")
	ErrCampaignHasSubmissions = errors.New("cannot delete a campaign that has submissions")
	ErrCampaignNotActive      = errors.New("prizes can only be distributed for an active campaign")
	ErrWinnerRequired         = errors.New("both first and second winners must be selected")
	ErrSameWinner             = errors.New("first and second winner must be different submissions")
	ErrWinnerNotInCampaign    = errors.New("winner submission does not belong to this campaign")
	ErrAlreadyDistributed     = errors.New("prizes have already been distributed for this campaign")
	ErrInvalidRating          = errors.New("rating must be between 0 and 10")
	ErrInvalidPrizePosition   = errors.New("prize_position must be first, second or empty")
)
