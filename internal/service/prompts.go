package service

import "strings"

// TopicClearMarker is emitted by the assistant once the learner's topic
// is settled. Everything after the marker is the topic name.
const TopicClearMarker = "TOPIC_CLEAR:"

// chatbotSystemPrompts keys system prompts by interface language.
// Unknown languages fall back to English.
var chatbotSystemPrompts = map[string]string{
	"en": `You are a helpful learning assistant. Your job is to help users discover what they want to learn.
    - Ask clarifying questions if the user is unsure
    - Provide suggestions based on their interests
    - When the topic is clear, respond with: TOPIC_CLEAR: [topic name]
    - Be encouraging and supportive
    - Keep responses concise and friendly`,

	"ru": `Вы полезный помощник по обучению. Ваша задача - помочь пользователям понять, что они хотят изучать.
    - Задавайте уточняющие вопросы, если пользователь не уверен
    - Предлагайте варианты на основе их интересов
    - Когда тема ясна, отвечайте: TOPIC_CLEAR: [название темы]
    - Будьте ободряющими и поддерживающими
    - Держите ответы краткими и дружелюбными`,

	"kaa": `Siz paydalı hám bilimli oqıw járdemshisisiz.
TIYKARǴI QAǴIYDA: Siz tek ǵana ádebiy Qaraqalpaq tilinde (Latın grafikasında) juwap beriń. Ózbek, Qazaq yamasa basqa tillerdi aralastırmań. Háriplerdiń durıs jazılıwına (mısalı: ı, ú, ó, ǵ, ń) itibar beriń.

Seniń maqsetiń - paydalanıwshıǵa ne úyreniwdi qáleytuǵının anıqlawǵa kómeklesiw.

Instrkciyalar:
1. ANÍQLAW: Eger paydalanıwshı ne oqıw kerekligin bilmese, oǵan anıqlawshı sorawlar beriń.
2. USINIS: Olardıń qızıǵıwshılıqlarına tiykarlanıp, paydalı usınıslar beriń.
3. TON: Hár dayım qollap-quwatlawshı, xoshametlewshi hám doslıq múnásibette bolıń.
4. JUWAP: Juwaplarıńız qısqa, túsinikli hám grammatikalıq jaqtan qatesiz bolsın.

NÁTIYJE:
Tema tolıq anıq bolǵanda, sóylesiwdi tómendegi formatta juwmaqlań:
TOPIC_CLEAR: [tema atı]`,

	"uz": `Siz foydali va bilimli o'quv yordamchisisiz.
ASOSIY QOIDA: Siz faqat adabiy O'zbek tilida (Lotin grafikasida) javob bering. Rus yoki boshqa tillarni aralashtirmang.

Sizning maqsadingiz - foydalanuvchiga nima o'rganishni xohlashini aniqlashga yordam berish.

Ko'rsatmalar:
1. ANIQLASH: Agar foydalanuvchi nima o'qish kerakligini bilmasa, unga aniqlovchi savollar bering.
2. TAKLIF: Ularning qiziqishlariga asoslanib, foydali takliflar bering.
3. TON: Har doim qo'llab-quvvatlovchi, rag'batlantiruvchi va do'stona munosabatda bo'ling.
4. JAVOB: Javoblaringiz qisqa, tushunarli va grammatik jihatdan xatosiz bo'lsin.

NATIJA:
Mavzu to'liq aniq bo'lganda, suhbatni quyidagi formatda yakunlang:
TOPIC_CLEAR: [mavzu nomi]`,
}

// courseGenerationPrompts keys course generation templates by language.
// The {topic} placeholder is substituted before the call.
var courseGenerationPrompts = map[string]string{
	"en": `Create a comprehensive course on: "{topic}".
    The output must be a valid JSON object with this structure:
    {
        "title": "Course Title",
        "description": "Course Description",
        "modules": [
            {
                "title": "Module Title",
                "order": 1,
                "lessons": [
                    {
                        "title": "Lesson Title",
                        "content": "Detailed lesson content in Markdown format...",
                        "quizzes": [
                            {
                                "question": "Quiz Question?",
                                "options": ["Option A", "Option B", "Option C", "Option D"],
                                "correct_answer": 0
                            }
                        ]
                    }
                ]
            }
        ]
    }
    Generate exactly 3 modules.
    Modules 1 and 2 must have 5 lessons each. Each lesson must have 1 or 2 quizzes.
    Module 3 must be named "Final Exam" and contain exactly 1 lesson named "Final Assessment". This lesson must have at least 10 quizzes covering the entire course.
    Ensure the JSON is valid and strictly follows the schema.
    All content must be in English.`,

	"ru": `Создайте всеобъемлющий курс по теме: "{topic}".
    Вывод должен быть валидным JSON объектом с такой структурой:
    {
        "title": "Название курса",
        "description": "Описание курса",
        "modules": [
            {
                "title": "Название модуля",
                "order": 1,
                "lessons": [
                    {
                        "title": "Название урока",
                        "content": "Подробное содержание урока в формате Markdown...",
                        "quizzes": [
                            {
                                "question": "Вопрос теста?",
                                "options": ["Вариант А", "Вариант Б", "Вариант В", "Вариант Г"],
                                "correct_answer": 0
                            }
                        ]
                    }
                ]
            }
        ]
    }
    Создайте ровно 3 модуля.
    Модули 1 и 2 должны содержать по 5 уроков. В каждом уроке должно быть 1 или 2 теста.
    Модуль 3 должен называться "Итоговый экзамен" и содержать ровно 1 урок под названием "Итоговая оценка". Этот урок должен содержать не менее 10 тестов, охватывающих весь курс.
    Убедитесь, что JSON действителен и строго соответствует схеме.
    Весь контент должен быть на русском языке.`,

	"kaa": `Siz tájiriybeli oqıw metodisti hám kontent jaratıwshısısız.
Sizden tómendegi tapsırmanı orınlaw talap etiledi:

TAPSIRMA: "{topic}" teması boyınsha tolıq oqıw kursın jaratıń.

TİL TALABI:
1. Barlıq kontent (atamalar, sabaq mazmunı, testler) TEK ǴANA Qaraqalpaq tilinde (Latın grafikasında) bolıwı shárt.
2. Ózbek, Qazaq yamasa basqa tillerdi aralastırmań.
3. Háriplerdi durıs qollanıń: (ı, ú, ó, ǵ, ń, sh, ch).

STRUKTURA TALABI:
Kurs 3 modulden ibarat bolıwı kerek:
- 1-modul hám 2-modul: Hárqaysısında 5 sabaqtan bolsın. Hár sabaqta 1 yamasa 2 test sorawı bolsın.
- 3-modul: Atı "Juwmaqlawshı imtihan" bolsın. Bul modulde "Juwmaqlawshı sınaq" atlı 1 ǵana sabaq bolsın. Bul sabaqta pútkil kurstı qamtıytuǵın keminde 10 test sorawı bolıwı kerek.

FORMAT TALABI:
Nátiyje tek ǵana tómendegi sxemaǵa sáykes keletuǵın valid JSON bolıwı kerek (basqa sóz yamasa tüsindirme jazbań):

{
    "title": "Kurs atı",
    "description": "Kurs haqqında qısqasha táriyip",
    "modules": [
        {
            "title": "Modul atı",
            "order": 1,
            "lessons": [
                {
                    "title": "Sabaq atı",
                    "content": "Markdown formatındaǵı tolıq sabaq mazmunı (keminde 100 sóz)",
                    "quizzes": [
                        {
                            "question": "Test sorawı?",
                            "options": ["Variant A", "Variant B", "Variant C", "Variant D"],
                            "correct_answer": 0
                        }
                    ]
                }
            ]
        }
    ]
}
`,

	"uz": `Siz tajribali o'quv metodisti va kontent yaratuvchisisiz.
Sizdan quyidagi vazifani bajarish talab etiladi:

VAZIFA: "{topic}" mavzusi bo'yicha to'liq o'quv kursini yarating.

TIL TALABI:
1. Barcha kontent (nomlar, dars mazmuni, testlar) FAQAT O'zbek tilida (Lotin grafikasida) bo'lishi shart.
2. Rus yoki boshqa tillarni aralashtirmang.

TUZILMA TALABI:
Kurs 3 moduldan iborat bo'lishi kerak:
- 1-modul va 2-modul: Har birida 5 tadan dars bo'lsin. Har bir darsda 1 yoki 2 test savoli bo'lsin.
- 3-modul: Nomi "Yakuniy imtihon" bo'lsin. Bu modulda "Yakuniy sinov" nomli 1 tagina dars bo'lsin. Bu darsda butun kursni qamrab oladigan kamida 10 ta test savoli bo'lishi kerak.

FORMAT TALABI:
Natija faqat quyidagi sxemaga mos keladigan valid JSON bo'lishi kerak (boshqa so'z yoki tushuntirish yozmang):

{
    "title": "Kurs nomi",
    "description": "Kurs haqida qisqacha tavsif",
    "modules": [
        {
            "title": "Modul nomi",
            "order": 1,
            "lessons": [
                {
                    "title": "Dars nomi",
                    "content": "Markdown formatidagi to'liq dars mazmuni (kamida 100 so'z)",
                    "quizzes": [
                        {
                            "question": "Test savoli?",
                            "options": ["Variant A", "Variant B", "Variant C", "Variant D"],
                            "correct_answer": 0
                        }
                    ]
                }
            ]
        }
    ]
}
`,
}

// chatbotErrorReplies is the localized apology returned when the model
// call fails during topic discovery.
var chatbotErrorReplies = map[string]string{
	"en":  "Sorry, I encountered an error. Please try again.",
	"ru":  "Извините, произошла ошибка. Пожалуйста, попробуйте еще раз.",
	"kaa": "Keshiriń, qátelik júz berdi. Qaytadan urınıp kóriń.",
	"uz":  "Kechirasiz, xatolik yuz berdi. Iltimos, qayta urinib ko'ring.",
}

func ChatbotSystemPrompt(language string) string {
	if p, ok := chatbotSystemPrompts[language]; ok {
		return p
	}
	return chatbotSystemPrompts["en"]
}

func CourseGenerationPrompt(topic, language string) string {
	tpl, ok := courseGenerationPrompts[language]
	if !ok {
		tpl = courseGenerationPrompts["en"]
	}
	return strings.ReplaceAll(tpl, "{topic}", topic)
}

func ChatbotErrorReply(language string) string {
	if r, ok := chatbotErrorReplies[language]; ok {
		return r
	}
	return chatbotErrorReplies["en"]
}
