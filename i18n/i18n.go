// Package i18n translates user-facing strings. English strings are the keys.
package i18n

import (
	"strings"
	"sync"

	"Countdowns/logging"

	"github.com/jeandeaual/go-locale"
)

var (
	mu   sync.RWMutex
	lang = "en"
)

var translations = map[string]map[string]string{
	"Countdowns": {
		"pt": "Contagens",
		"es": "Cuentas atrás",
		"ru": "Таймеры",
	},
	"New timer": {
		"pt": "Novo timer",
		"es": "Nuevo temporizador",
		"ru": "Новый таймер",
	},
	"Edit timer": {
		"pt": "Editar timer",
		"es": "Editar temporizador",
		"ru": "Изменить таймер",
	},
	"Title": {
		"pt": "Título",
		"es": "Título",
		"ru": "Название",
	},
	"Description": {
		"pt": "Descrição",
		"es": "Descripción",
		"ru": "Описание",
	},
	"Hours": {
		"pt": "Horas",
		"es": "Horas",
		"ru": "Часы",
	},
	"Minutes": {
		"pt": "Minutos",
		"es": "Minutos",
		"ru": "Минуты",
	},
	"Seconds": {
		"pt": "Segundos",
		"es": "Segundos",
		"ru": "Секунды",
	},
	"Save": {
		"pt": "Salvar",
		"es": "Guardar",
		"ru": "Сохранить",
	},
	"Cancel": {
		"pt": "Cancelar",
		"es": "Cancelar",
		"ru": "Отмена",
	},
	"Delete": {
		"pt": "Excluir",
		"es": "Eliminar",
		"ru": "Удалить",
	},
	"Stop alarm": {
		"pt": "Parar alarme",
		"es": "Detener alarma",
		"ru": "Выключить сигнал",
	},
	"running": {
		"pt": "em andamento",
		"es": "en marcha",
		"ru": "идёт",
	},
	"paused": {
		"pt": "pausado",
		"es": "en pausa",
		"ru": "на паузе",
	},
	"completed": {
		"pt": "concluído",
		"es": "completado",
		"ru": "завершён",
	},
	"No timers yet": {
		"pt": "Nenhum timer ainda",
		"es": "Aún no hay temporizadores",
		"ru": "Таймеров пока нет",
	},
	"Title is required": {
		"pt": "O título é obrigatório",
		"es": "El título es obligatorio",
		"ru": "Название обязательно",
	},
	"Title must be less than 50 characters": {
		"pt": "O título deve ter menos de 50 caracteres",
		"es": "El título debe tener menos de 50 caracteres",
		"ru": "Название должно быть короче 50 символов",
	},
	"Time values cannot be negative": {
		"pt": "Os valores de tempo não podem ser negativos",
		"es": "Los valores de tiempo no pueden ser negativos",
		"ru": "Время не может быть отрицательным",
	},
	"Minutes and seconds must be between 0 and 59": {
		"pt": "Minutos e segundos devem estar entre 0 e 59",
		"es": "Los minutos y segundos deben estar entre 0 y 59",
		"ru": "Минуты и секунды должны быть от 0 до 59",
	},
	"Please set a time greater than 0": {
		"pt": "Defina um tempo maior que 0",
		"es": "Establece un tiempo mayor que 0",
		"ru": "Укажите время больше 0",
	},
	"Timer cannot exceed 24 hours": {
		"pt": "O timer não pode passar de 24 horas",
		"es": "El temporizador no puede superar las 24 horas",
		"ru": "Таймер не может превышать 24 часа",
	},
	"Time values must be whole numbers": {
		"pt": "Os valores de tempo devem ser números inteiros",
		"es": "Los valores de tiempo deben ser números enteros",
		"ru": "Время должно быть целым числом",
	},
	"Time's up": {
		"pt": "Tempo esgotado",
		"es": "Se acabó el tiempo",
		"ru": "Время вышло",
	},
}

// Init selects the language. A non-empty forced value wins; otherwise the
// system locale is used, defaulting to English.
func Init(forced string) {
	log := logging.NewLogger("i18n")
	selected := "en"

	if forced = strings.TrimSpace(forced); forced != "" {
		log.WithField("lang", forced).Debug("Language forced by configuration")
		selected = normalize(forced)
	} else if userLocales, err := locale.GetLocales(); err != nil {
		log.WithError(err).Debug("Could not get user locale, defaulting to english")
	} else if len(userLocales) > 0 {
		log.WithField("locale", userLocales[0]).Debug("Detected user locale")
		selected = normalize(userLocales[0])
	}

	mu.Lock()
	lang = selected
	mu.Unlock()
	log.WithField("lang", selected).Info("Language set")
}

func normalize(tag string) string {
	tag = strings.ToLower(tag)
	for _, l := range []string{"pt", "es", "ru"} {
		if strings.HasPrefix(tag, l) {
			return l
		}
	}
	return "en"
}

// T translates key into the current language, returning key when there is no
// translation.
func T(key string) string {
	mu.RLock()
	defer mu.RUnlock()
	if translated, ok := translations[key][lang]; ok {
		return translated
	}
	return key
}

// GetLang returns the current language code.
func GetLang() string {
	mu.RLock()
	defer mu.RUnlock()
	return lang
}
