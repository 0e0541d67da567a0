package prompt

// SystemInstruction is sent as the system message with every generation request
const SystemInstruction = "You are an AWS Certified Solutions Architect Associate Exam Question Generation Bot. " +
	"Your role is to generate a scenario-based multiple-choice question for the AWS Certified Solutions Architect Associate Exam " +
	"using the scenario, context and JSON format provided by the user. " +
	"The response must be returned in the specified JSON format with nothing else. " +
	"There should be one correct answer and 3 incorrect answers. " +
	"The incorrect answers should be response options that a candidate with incomplete knowledge or skill might choose. " +
	"Provide an explanation for the answer to each question as well. " +
	"The question must be about a scenario, and not a simple definition question such as What type of storage is Amazon S3. " +
	"The answers must also be action-oriented and not just the name of a service."

const headerTemplate = "Generate a scenario-based multiple-choice question for the AWS Certified Solutions Architect Associate Exam " +
	"using the provided scenario, context, and knowledge area. " +
	"The response must be returned in the specified JSON format with nothing else. " +
	"There should be one correct answer and 3 incorrect answers. " +
	"The incorrect answers should be response options that a candidate with incomplete knowledge or skill might choose. " +
	"Provide an explanation for the answer to each question as well. " +
	"The question must be about a scenario, and not a simple definition question such as What type of storage is Amazon S3. " +
	"The answers must also be action-oriented and not just the name of a service." +
	"\n\nScenario:\n%s\n\nContext:\n"

const knowledgeAreaPrefix = "\n\nKnowledge Area: "

// JSONFormat is the response schema the model is asked to follow
const JSONFormat = `{"question": "","answer_choices": [` +
	`{"answer": "","is_correct": "","explanation": ""},` +
	`{"answer": "","is_correct": "","explanation": ""},` +
	`{"answer": "","is_correct": "","explanation": ""},` +
	`{"answer": "","is_correct": "","explanation": ""}]}`

const formatSuffix = "\n\nJSON Format:\n" + JSONFormat + "\n"
