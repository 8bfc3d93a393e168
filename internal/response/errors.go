package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAccountPending     ErrCode = "ACCOUNT_PENDING"
	ErrAccountInactive    ErrCode = "ACCOUNT_INACTIVE"
	ErrSessionInvalidated ErrCode = "SESSION_INVALIDATED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"
	ErrReauthFailed       ErrCode = "REAUTH_FAILED"
	ErrInvalidResetToken  ErrCode = "INVALID_RESET_TOKEN"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound   ErrCode = "NOT_FOUND"
	ErrConflict   ErrCode = "CONFLICT"
	ErrEmailTaken ErrCode = "EMAIL_TAKEN"

	// ─── Exam-specific ─────────────────────────────────────────────────
	ErrExamNotFound         ErrCode = "EXAM_NOT_FOUND"
	ErrAlreadySubmitted     ErrCode = "ALREADY_SUBMITTED"
	ErrExamNotEditable      ErrCode = "EXAM_NOT_EDITABLE"
	ErrNoContent            ErrCode = "NO_CONTENT"
	ErrIncompleteAnswers    ErrCode = "INCOMPLETE_ANSWERS"
	ErrWrongExamType        ErrCode = "WRONG_EXAM_TYPE"
	ErrResultNotGradable    ErrCode = "RESULT_NOT_GRADABLE"
	ErrResultsNotPublished  ErrCode = "RESULTS_NOT_PUBLISHED"
	ErrInvalidCorrectAnswer ErrCode = "INVALID_CORRECT_ANSWER"
	ErrExamNotStarted       ErrCode = "EXAM_NOT_STARTED"
	ErrTimeExpired          ErrCode = "TIME_EXPIRED"

	// ─── Media ─────────────────────────────────────────────────────────
	ErrFileRequired    ErrCode = "FILE_REQUIRED"
	ErrUnsupportedFile ErrCode = "UNSUPPORTED_FILE_TYPE"
	ErrFileTooLarge    ErrCode = "FILE_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns the Arabic user-facing message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "البريد الإلكتروني أو كلمة المرور غير صحيحة."
	case ErrAccountPending:
		return "حسابك قيد المراجعة. يرجى انتظار تفعيله من قبل الإدارة."
	case ErrAccountInactive:
		return "حسابك غير مفعّل. تم تسجيل خروجك."
	case ErrSessionInvalidated:
		return "انتهت جلستك. يرجى تسجيل الدخول مرة أخرى."
	case ErrTokenRequired:
		return "يجب تسجيل الدخول أولاً."
	case ErrTokenInvalid:
		return "رمز الدخول غير صالح."
	case ErrTokenExpired:
		return "انتهت صلاحية رمز الدخول."
	case ErrReauthFailed:
		return "كلمة المرور الحالية غير صحيحة."
	case ErrInvalidResetToken:
		return "رابط إعادة التعيين غير صالح أو منتهي الصلاحية."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "ليس لديك صلاحية للوصول إلى هذا المورد."
	case ErrStudentAccessOnly:
		return "هذه الصفحة مخصصة للطلاب فقط."
	case ErrAdminAccessOnly:
		return "هذه الصفحة مخصصة للمشرفين فقط."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "فشل التحقق من البيانات. يرجى مراجعة المدخلات."
	case ErrInvalidID:
		return "صيغة المعرّف غير صالحة."
	case ErrInvalidPayload:
		return "بيانات الطلب غير صالحة."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "العنصر المطلوب غير موجود."
	case ErrConflict:
		return "العنصر موجود بالفعل."
	case ErrEmailTaken:
		return "هذا البريد الإلكتروني مسجل بالفعل."

	// ─── Exam-specific ─────────────────────────────────────────────────
	case ErrExamNotFound:
		return "الامتحان غير موجود."
	case ErrAlreadySubmitted:
		return "لقد قمت بتسليم هذا الامتحان من قبل."
	case ErrExamNotEditable:
		return "لا يمكن تعديل امتحانات رفع الملفات."
	case ErrNoContent:
		return "لا توجد أسئلة في هذا الاختبار بعد."
	case ErrIncompleteAnswers:
		return "يجب الإجابة على جميع الأسئلة قبل التسليم."
	case ErrWrongExamType:
		return "نوع الامتحان لا يدعم هذه العملية."
	case ErrResultNotGradable:
		return "لا يمكن رصد درجة يدوية إلا لامتحانات رفع الملفات."
	case ErrResultsNotPublished:
		return "لم يتم نشر النتائج بعد."
	case ErrInvalidCorrectAnswer:
		return "الإجابة الصحيحة يجب أن تكون أحد الخيارات."
	case ErrExamNotStarted:
		return "يجب فتح الامتحان قبل تسليمه."
	case ErrTimeExpired:
		return "انتهى وقت الامتحان."

	// ─── Media ─────────────────────────────────────────────────────────
	case ErrFileRequired:
		return "يجب رفع ملف."
	case ErrUnsupportedFile:
		return "نوع الملف غير مدعوم."
	case ErrFileTooLarge:
		return "حجم الملف يتجاوز الحد المسموح."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "طلبات كثيرة جداً. يرجى المحاولة لاحقاً."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "حدث خطأ في الخادم. يرجى المحاولة مرة أخرى."
	default:
		return "حدث خطأ غير متوقع."
	}
}
