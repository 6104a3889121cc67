package response

// 业务状态码
const (
	CodeSuccess = 0
	CodeError   = 1

	// 认证模块错误 100xx
	ErrAuthFailed   = 10003
	ErrTokenInvalid = 10004
	ErrNoPermission = 10005

	// 活动模块错误 200xx
	ErrCampaignNotFound       = 20001
	ErrSubmissionNotFound     = 20002
	ErrNoSubmissions          = 20003
	ErrWinnersNotSelected     = 20004
	ErrInvalidTransition      = 20005
	ErrSameWinner             = 20006
	ErrAlreadyDistributed     = 20007
	ErrCampaignClosed         = 20008
	ErrCampaignHasSubmissions = 20009
	ErrWinnerNotInCampaign    = 20010

	// 提现模块错误 300xx
	ErrWithdrawalNotFound      = 30001
	ErrRejectionReasonRequired = 30002
	ErrAlreadyProcessed        = 30003

	// 优惠券模块错误 400xx
	ErrCouponNotFound      = 40001
	ErrCouponCodeTaken     = 40002
	ErrCouponUnavailable   = 40003
	ErrCouponNotApplicable = 40004

	// 推送模块错误 450xx
	ErrPushTargetRequired = 45001

	// 上传模块错误 460xx
	ErrInvalidImage  = 46001
	ErrImageTooLarge = 46002

	// 用户模块错误 470xx
	ErrUserNotFound = 47001

	// 系统错误 500xx
	ErrServerInternal  = 50001
	ErrInvalidParam    = 50002
	ErrTooManyRequests = 50003
)
