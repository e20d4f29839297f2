package catalog

import "designator/internal/model"

// Entry is one document type of a catalog.
type Entry struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Custom bool   `json:"custom"`
}

// ГОСТ 19.101 program document types.
var espdTypes = []Entry{
	{Code: "00", Name: "00 - Спецификация"},
	{Code: "05", Name: "05 - Ведомость держателей подлинников"},
	{Code: "12", Name: "12 - Текст программы"},
	{Code: "13", Name: "13 - Описание программы"},
	{Code: "20", Name: "20 - Ведомость эксплуатационных документов"},
	{Code: "30", Name: "30 - Формуляр"},
	{Code: "31", Name: "31 - Описание применения"},
	{Code: "32", Name: "32 - Руководство системного программиста"},
	{Code: "33", Name: "33 - Руководство программиста"},
	{Code: "34", Name: "34 - Руководство оператора"},
	{Code: "35", Name: "35 - Описание языка"},
	{Code: "46", Name: "46 - Руководство по техническому обслуживанию"},
	{Code: "51", Name: "51 - Программа и методика испытаний"},
	{Code: "81", Name: "81 - Пояснительная записка"},
	{Code: "90", Name: "90 - Прочие документы"},
}

// ГОСТ 2.102 design document types.
var eskdTypes = []Entry{
	{Code: "СБ", Name: "Сборочный чертеж"},
	{Code: "ВО", Name: "Чертеж общего вида"},
	{Code: "ТЧ", Name: "Теоретический чертеж"},
	{Code: "ГЧ", Name: "Габаритный чертеж"},
	{Code: "МЭ", Name: "Электромонтажный чертеж"},
	{Code: "МЧ", Name: "Монтажный чертеж"},
	{Code: "УЧ", Name: "Упаковочный чертеж"},
	{Code: "Э1", Name: "Схема электрическая структурная"},
	{Code: "Э2", Name: "Схема электрическая функциональная"},
	{Code: "Э3", Name: "Схема электрическая принципиальная"},
	{Code: "Э4", Name: "Схема электрическая соединений"},
	{Code: "Э5", Name: "Схема электрическая подключения"},
	{Code: "Э6", Name: "Схема электрическая общая"},
	{Code: "Э7", Name: "Схема электрическая расположения"},
	{Code: "ПЗ", Name: "Пояснительная записка"},
	{Code: "ТУ", Name: "Технические условия"},
	{Code: "ПМ", Name: "Программа и методика испытаний"},
	{Code: "ТБ", Name: "Таблицы"},
	{Code: "РР", Name: "Расчеты"},
	{Code: "ВС", Name: "Ведомость спецификаций"},
	{Code: "ВД", Name: "Ведомость ссылочных документов"},
	{Code: "ВП", Name: "Ведомость покупных изделий"},
	{Code: "ДП", Name: "Ведомость держателей подлинников"},
	{Code: "ПТ", Name: "Ведомость технического предложения"},
	{Code: "ЭП", Name: "Ведомость эскизного проекта"},
	{Code: "ТП", Name: "Ведомость технического проекта"},
	{Code: "РЭ", Name: "Руководство по эксплуатации"},
	{Code: "ПС", Name: "Паспорт"},
	{Code: "ФО", Name: "Формуляр"},
	{Code: "ЭТ", Name: "Этикетка"},
	{Code: "ВЭ", Name: "Ведомость эксплуатационных документов"},
	{Code: "ИМ", Name: "Инструкция по монтажу, пуску, регулированию и обкатке изделия"},
}

// ГОСТ 34.201 automated system document types.
var gost34Types = []Entry{
	{Code: "ЭП", Name: "Ведомость эскизного проекта"},
	{Code: "ТП", Name: "Ведомость технического проекта"},
	{Code: "ВП", Name: "Ведомость покупных изделий"},
	{Code: "В1", Name: "Ведомость машинных носителей информации"},
	{Code: "В2", Name: "Ведомость массивов данных"},
	{Code: "В3", Name: "Ведомость оборудования и материалов"},
	{Code: "В4", Name: "Ведомость потребности в материалах"},
	{Code: "П1", Name: "Пояснительная записка к эскизному проекту"},
	{Code: "П2", Name: "Пояснительная записка к техническому проекту"},
	{Code: "П3", Name: "Описание автоматизируемых функций"},
	{Code: "П4", Name: "Описание постановки задачи"},
	{Code: "П5", Name: "Описание информационного обеспечения системы"},
	{Code: "П6", Name: "Описание организации информационной базы"},
	{Code: "П7", Name: "Описание систем классификации и кодирования"},
	{Code: "П8", Name: "Описание массива информации"},
	{Code: "П9", Name: "Описание комплекса технических средств"},
	{Code: "ПА", Name: "Описание программного обеспечения"},
	{Code: "ПБ", Name: "Описание алгоритма"},
	{Code: "ПВ", Name: "Описание организационной структуры"},
	{Code: "ПГ", Name: "Описание технологического процесса обработки данных"},
	{Code: "С1", Name: "Схема организационной структуры"},
	{Code: "С2", Name: "Схема структурная комплекса технических средств"},
	{Code: "С3", Name: "Схема автоматизации"},
	{Code: "С4", Name: "Схема функциональной структуры"},
	{Code: "С5", Name: "Схема деления системы на подсистемы"},
	{Code: "С6", Name: "Схема информационного обеспечения"},
	{Code: "С7", Name: "Схема соединения внешних проводок"},
	{Code: "С8", Name: "Схема подключения внешних проводок"},
	{Code: "С9", Name: "Схема информационная"},
	{Code: "ТЗ", Name: "Техническое задание"},
	{Code: "И1", Name: "Инструкция по ведению базы данных"},
	{Code: "И2", Name: "Инструкция по формированию и ведению базы данных"},
	{Code: "И3", Name: "Руководство пользователя"},
	{Code: "И4", Name: "Инструкция по эксплуатации КТС"},
	{Code: "И5", Name: "Технологическая инструкция"},
	{Code: "И6", Name: "Инструкция по эксплуатации"},
	{Code: "ПС", Name: "Паспорт"},
	{Code: "ФО", Name: "Формуляр"},
	{Code: "ПМ", Name: "Программа и методика испытаний"},
}

var fixed = map[model.Standard][]Entry{
	model.StandardESPD:   espdTypes,
	model.StandardESKD:   eskdTypes,
	model.StandardGOST34: gost34Types,
}

// First letters a custom ГОСТ 34 code may start with (document kinds of ГОСТ 34.201 table 1).
const customFirstLetters = "ВПСЧИРБФДТЭОМ"

// Second characters a custom ГОСТ 34 code may end with, besides a digit.
const customSecondLetters = "АБВГДЕЖИКЛМНПРСТУФХЦШЩЭЮЯ"
