package domain

// Fallback failure messages, used when the backend response carries no
// error field.
var (
	AUTH_REGISTER_FAILED      = "Ошибка регистрации"
	AUTH_LOGIN_FAILED         = "Ошибка входа"
	AUTH_LOGOUT_FAILED        = "Ошибка выхода"
	SESSION_CHECK_FAILED      = "Ошибка проверки сессии"
	ATTEMPT_START_FAILED      = "Ошибка старта тестирования"
	ATTEMPT_QUESTIONS_FAILED  = "Ошибка загрузки вопросов"
	ANSWER_SUBMIT_FAILED      = "Ошибка отправки ответа"
	ATTEMPT_FINISH_FAILED     = "Ошибка завершения тестирования"
	AI_DIALOGUE_CREATE_FAILED = "Ошибка создания диалога с AI"
	AI_MESSAGE_SEND_FAILED    = "Ошибка отправки сообщения в AI"
	RESULT_LOAD_FAILED        = "Ошибка загрузки результатов"
)

// User-facing notices and local validation texts.
var (
	ANSWER_SAVED         = "Ответ сохранён"
	ANSWER_EMPTY         = "Пожалуйста, введите ответ"
	ANSWER_ALREADY_SENT  = "Ответ на этот вопрос уже отправлен"
	ATTEMPT_FINISHED     = "Тестирование завершено!"
	AI_DIALOGUE_PENDING  = "Диалог с AI ещё не создан. Пожалуйста, подождите."
	AI_MESSAGE_PREFIX    = "Ошибка: "
	QUESTION_UNKNOWN_POS = "Неизвестный номер вопроса"
)
