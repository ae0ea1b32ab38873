package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu      UserState = "main_menu"      // В главном меню
	StateAwaitingPhoto UserState = "awaiting_photo" // Ожидание фото с водяным знаком
	StateProcessing    UserState = "processing"     // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID      int64           // Telegram User ID
	ChatID  int64           // Telegram Chat ID
	State   UserState       // Текущее состояние пользователя
	Pending *RemovalRequest // Выбранная стратегия, ждёт фото
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// Request возвращает запрос, который нужно выполнить для следующего фото.
// Без выбранной стратегии используется auto с параметрами по умолчанию.
func (u *User) Request() RemovalRequest {
	if u.Pending == nil {
		return RemovalRequest{Strategy: StrategyAuto}
	}
	return *u.Pending
}

// Reset возвращает пользователя в главное меню и забывает выбранную стратегию.
func (u *User) Reset() {
	u.State = StateMainMenu
	u.Pending = nil
}
